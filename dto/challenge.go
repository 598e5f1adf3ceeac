// file: dto/challenge.go
package dto

import (
	"errors"
	"net/url"
	"strings"
)

// ========== request DTOs ==========

type LinkReq struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Validate enforces the explicit {name, url} shape at the boundary.
func (l *LinkReq) Validate() error {
	l.Name = strings.TrimSpace(l.Name)
	l.URL = strings.TrimSpace(l.URL)
	if l.Name == "" || l.URL == "" {
		return errors.New("link entries require both name and url")
	}
	u, err := url.Parse(l.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("link url must be absolute http(s)")
	}
	return nil
}

type CreateChallengeReq struct {
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Points      uint      `json:"points"`
	IsPublished bool      `json:"is_published"`
	Links       []LinkReq `json:"links"`

	// Aliases kept for older clients; normalized below.
	TitleCamel       string `json:"challengeName"`
	IsPublishedCamel *bool  `json:"isPublished"`
}

func (r *CreateChallengeReq) Normalize() {
	if r.Title == "" && r.TitleCamel != "" {
		r.Title = r.TitleCamel
	}
	if r.IsPublishedCamel != nil {
		r.IsPublished = *r.IsPublishedCamel
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Author = strings.TrimSpace(r.Author)
	r.Description = strings.TrimSpace(r.Description)
}

type UpdateChallengeReq struct {
	Title       *string    `json:"title"`
	Category    *string    `json:"category"`
	Author      *string    `json:"author"`
	Description *string    `json:"description"`
	Points      *uint      `json:"points"`
	IsPublished *bool      `json:"is_published"`
	Links       *[]LinkReq `json:"links"`
}

type SubmitFlagReq struct {
	Flag      string `json:"flag"`
	FlagCamel string `json:"Flag"`
}

func (r *SubmitFlagReq) Normalize() {
	if r.Flag == "" && r.FlagCamel != "" {
		r.Flag = r.FlagCamel
	}
	r.Flag = strings.TrimSpace(r.Flag)
}

type SetFlagReq struct {
	Flag string `json:"flag"`
	// Generate asks the server to mint a random flag instead.
	Generate bool `json:"generate"`
}

// ========== response DTOs ==========

type LinkResp struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ChallengeItemResp struct {
	ID          uint32 `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Points      uint   `json:"points"`
	SolvedCount int64  `json:"solved_count"`
	Solved      bool   `json:"solved"`
}

type ChallengeDetailResp struct {
	ID          uint32     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Author      string     `json:"author"`
	Description string     `json:"description"`
	Points      uint       `json:"points"`
	Links       []LinkResp `json:"links"`
	SolvedCount int64      `json:"solved_count"`
	Solved      bool       `json:"solved"`
}

type SubmitFlagResp struct {
	Result  string `json:"result"`
	Points  uint   `json:"points"`
	Message string `json:"message"`
}

type AdminChallengeItemResp struct {
	ID          uint32 `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Points      uint   `json:"points"`
	IsPublished bool   `json:"is_published"`
	HasFlag     bool   `json:"has_flag"`
	UpdatedAt   string `json:"updated_at"`
}
