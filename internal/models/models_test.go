package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{
			name:      "future expiry",
			expiresAt: time.Now().Add(time.Hour),
			expected:  false,
		},
		{
			name:      "past expiry",
			expiresAt: time.Now().Add(-time.Hour),
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{ID: "abc", UserID: 1, ExpiresAt: tt.expiresAt}
			if got := s.IsExpired(); got != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDrillSessionValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		session DrillSession
	}{
		{
			name: "active session",
			session: DrillSession{
				ID:          1,
				UserID:      1,
				StudyPlanID: 1,
				Mode:        ModeWriting,
				StartedAt:   now,
				TotalItems:  10,
			},
		},
		{
			name: "completed test session",
			session: DrillSession{
				ID:           2,
				UserID:       1,
				StudyPlanID:  1,
				Mode:         ModeMultipleChoice,
				IsTest:       true,
				StartedAt:    now,
				CompletedAt:  &now,
				TotalItems:   10,
				CorrectItems: 8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.session.UserID == 0 {
				t.Error("UserID should not be 0")
			}
			if tt.session.StudyPlanID == 0 {
				t.Error("StudyPlanID should not be 0")
			}
			if tt.session.CorrectItems > tt.session.TotalItems {
				t.Error("CorrectItems cannot exceed TotalItems")
			}
		})
	}
}
