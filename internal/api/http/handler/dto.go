package handler

import (
	"time"

	"github.com/dtroode/promptgallery-server/internal/model"
)

type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type claimsResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	CertifiedField *string   `json:"certifiedField"`
	IssuedAt       time.Time `json:"issuedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

type verifyResponse struct {
	Valid bool            `json:"valid"`
	User  *claimsResponse `json:"user,omitempty"`
}

type categoryRequest struct {
	Name string `json:"name" form:"name"`
}

type categoryResponse struct {
	Name          string `json:"name"`
	NormalizedKey string `json:"normalizedKey"`
}

// commentRequest accepts "name" as an alias of "author".
type commentRequest struct {
	Author string `json:"author" form:"author"`
	Name   string `json:"name" form:"name"`
	Text   string `json:"text" form:"text"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type authorResponse struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Certificate *string `json:"certificate"`
}

type promptResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	ResultOutput string            `json:"resultOutput"`
	Image        string            `json:"image"`
	CreatedBy    string            `json:"createdBy"`
	Certificate  *string           `json:"certificate"`
	CreatedAt    time.Time         `json:"createdAt"`
	Comments     []commentResponse `json:"comments"`
	User         *authorResponse   `json:"user,omitempty"`
}

type publicPromptResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	ResultOutput string    `json:"resultOutput"`
	Image        string    `json:"image"`
	CreatedBy    string    `json:"createdBy"`
	Certificate  *string   `json:"certificate"`
	CreatedAt    time.Time `json:"createdAt"`
}

type createPromptResponse struct {
	Message string         `json:"message"`
	Data    promptResponse `json:"data"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toClaimsResponse(c model.Claims) *claimsResponse {
	return &claimsResponse{
		ID:             c.SubjectID.String(),
		Email:          c.Email,
		CertifiedField: nullable(c.CertifiedField),
		IssuedAt:       c.IssuedAt,
		ExpiresAt:      c.ExpiresAt,
	}
}

func toCategoryResponse(c model.Category) categoryResponse {
	return categoryResponse{Name: c.Name, NormalizedKey: c.NormalizedKey}
}

func toCommentResponses(comments []model.Comment) []commentResponse {
	out := make([]commentResponse, len(comments))
	for i, c := range comments {
		out[i] = commentResponse{
			ID:        c.ID.String(),
			Author:    c.Author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		}
	}
	return out
}

func toPromptResponse(p model.Prompt) promptResponse {
	return promptResponse{
		ID:           p.ID.String(),
		Title:        p.Title,
		Category:     p.Category,
		Description:  p.Description,
		ResultOutput: p.ResultOutput,
		Image:        p.ImageRef,
		CreatedBy:    p.AuthorEmail,
		Certificate:  nullable(p.CertificateSnapshot),
		CreatedAt:    p.CreatedAt,
		Comments:     toCommentResponses(p.Comments),
	}
}

func toEnrichedResponse(p model.EnrichedPrompt) promptResponse {
	resp := toPromptResponse(p.Prompt)
	resp.User = &authorResponse{
		Name:        p.Author.Name,
		Email:       p.Author.Email,
		Certificate: nullable(p.Author.CertificateRef),
	}
	return resp
}

func toPublicPromptResponse(p model.Prompt) publicPromptResponse {
	return publicPromptResponse{
		ID:           p.ID.String(),
		Title:        p.Title,
		Category:     p.Category,
		Description:  p.Description,
		ResultOutput: p.ResultOutput,
		Image:        p.ImageRef,
		CreatedBy:    p.AuthorEmail,
		Certificate:  nullable(p.CertificateSnapshot),
		CreatedAt:    p.CreatedAt,
	}
}
