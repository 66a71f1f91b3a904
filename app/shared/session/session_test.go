package session

import (
	"context"
	"testing"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSession_CanEditPlayer(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	tests := []struct {
		name string
		sess Session
		want bool
	}{
		{"player edits own card", Session{PlayerID: self, Role: authdomain.RolePlayer}, true},
		{"player edits someone else", Session{PlayerID: self, Role: authdomain.RolePlayer}, false},
		{"admin edits anyone", Session{Role: authdomain.RoleAdmin}, true},
		{"viewer cannot edit", Session{PlayerID: self, Role: authdomain.RoleViewer}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := self
			if tt.name == "player edits someone else" || tt.name == "admin edits anyone" {
				target = other
			}
			assert.Equal(t, tt.want, tt.sess.CanEditPlayer(target))
		})
	}
}

func TestSession_Context(t *testing.T) {
	s := Session{PlayerID: uuid.New(), TournamentID: uuid.New(), Role: authdomain.RoleAdmin}

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	got, ok := FromContext(NewContext(context.Background(), s))
	assert.True(t, ok)
	assert.Equal(t, s, got)
	assert.True(t, got.IsAdmin())
}
