package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-chatbot/internal/domain"
)

func TestLastTurnPair_Empty(t *testing.T) {
	session := &domain.Session{}

	user, assistant := session.LastTurnPair()

	assert.Nil(t, user)
	assert.Nil(t, assistant)
}

func TestLastTurnPair_PicksNewestPair(t *testing.T) {
	session := &domain.Session{Messages: []domain.Message{
		{Role: domain.RoleUser, Text: "first question"},
		{Role: domain.RoleAssistant, Text: "first answer"},
		{Role: domain.RoleUser, Text: "second question"},
		{Role: domain.RoleAssistant, Text: "second answer"},
	}}

	user, assistant := session.LastTurnPair()

	require.NotNil(t, user)
	require.NotNil(t, assistant)
	assert.Equal(t, "second question", user.Text)
	assert.Equal(t, "second answer", assistant.Text)
}

func TestLastTurnPair_UserOnly(t *testing.T) {
	session := &domain.Session{Messages: []domain.Message{
		{Role: domain.RoleUser, Text: "question"},
	}}

	user, assistant := session.LastTurnPair()

	require.NotNil(t, user)
	assert.Equal(t, "question", user.Text)
	assert.Nil(t, assistant)
}
