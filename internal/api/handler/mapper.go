package handler

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/samarth/admin-console/internal/core/domain"
)

// Free text is relayed to the backend and shown to other operators, so any
// markup is stripped before it leaves the console. The policy escapes what it
// keeps; templates escape again on output, so the entities are undone here.
var textPolicy = bluemonday.StrictPolicy()

func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// --- Request → Domain ---

const (
	defaultInventoryState = "Warehouse"
	defaultTrainingStatus = "Upcoming"
)

func toInventoryItem(f inventoryForm) domain.InventoryItem {
	item := domain.InventoryItem{
		Name:         clean(f.Name),
		KitID:        clean(f.KitID),
		Model:        clean(f.Model),
		SerialNumber: clean(f.SerialNumber),
		Category:     clean(f.Category),
		Quantity:     f.Quantity,
		Status:       f.Status,
		State:        clean(f.State),
		District:     clean(f.District),
		Institution:  clean(f.Institution),
		Description:  clean(f.Description),
	}
	if item.State == "" {
		item.State = defaultInventoryState
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	return item
}

func toTraining(f trainingForm) domain.Training {
	return domain.Training{
		Title:             clean(f.Title),
		Instructor:        clean(f.Instructor),
		Date:              f.Date,
		ParticipantsCount: f.ParticipantsCount,
		Status:            defaultTrainingStatus,
	}
}

func toContentItem(f contentForm) domain.ContentItem {
	return domain.ContentItem{
		Title:              clean(f.Title),
		Category:           f.Category,
		DurationMinutes:    f.DurationMinutes,
		Tags:               clean(f.Tags),
		HasSafetyChecklist: f.HasSafetyChecklist,
		HasTroubleshooting: f.HasTroubleshooting,
		HasAssessmentCues:  f.HasAssessmentCues,
		QualityChecked:     f.QualityChecked,
	}
}

func toNewAccount(f userForm) domain.NewAccount {
	return domain.NewAccount{
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
		Role:     f.Role,
		FullName: clean(f.FullName),
	}
}

// --- Domain → Response ---

func toSessionResponse(s domain.Session) sessionResponse {
	resp := sessionResponse{
		Authenticated: s.Authenticated(),
		Hydrating:     s.Hydrating,
	}
	if s.Identity != nil {
		resp.Identity = &identityResult{
			Username: s.Identity.Username,
			Role:     string(s.Identity.Role),
			Name:     s.Identity.DisplayName,
		}
	}
	return resp
}
