package api

import (
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Stale     bool   `json:"stale"`
	Error     string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type RewardDTO struct {
	Threshold     int    `json:"threshold"`
	Description   string `json:"description"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
}

type BoardDTO struct {
	Person       string      `json:"person"`
	LastIncident string      `json:"last_incident"`
	Progress     int         `json:"progress"`
	Headline     string      `json:"headline"`
	Today        *RewardDTO  `json:"today,omitempty"`
	Next         *RewardDTO  `json:"next,omitempty"`
	Earned       []RewardDTO `json:"earned"`
}

type BoardsResponse struct {
	UpdatedAt string     `json:"updated_at,omitempty"`
	Boards    []BoardDTO `json:"boards"`
}

func headlineName(h milestone.Headline) string {
	switch h {
	case milestone.HeadlineToday:
		return "today"
	case milestone.HeadlineNext:
		return "next"
	case milestone.HeadlineEarned:
		return "earned"
	default:
		return "none"
	}
}

func toBoardDTO(b models.Board) BoardDTO {
	dto := BoardDTO{
		Person:       b.Person,
		LastIncident: b.LastIncident.Format(config.DateLayout),
		Progress:     b.Progress,
		Headline:     headlineName(b.Result.Headline()),
		Earned:       make([]RewardDTO, 0, len(b.Result.Earned)),
	}
	if t := b.Result.Today; t != nil {
		dto.Today = &RewardDTO{Threshold: t.Threshold, Description: t.Description}
	}
	if n := b.Result.Next; n != nil {
		dto.Next = &RewardDTO{Threshold: n.Milestone.Threshold, Description: n.Milestone.Description, DaysRemaining: n.Days}
	}
	for _, e := range b.Result.Earned {
		dto.Earned = append(dto.Earned, RewardDTO{Threshold: e.Milestone.Threshold, Description: e.Milestone.Description, DaysRemaining: e.Days})
	}
	return dto
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
