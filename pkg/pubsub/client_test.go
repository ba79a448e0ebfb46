package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dulcismaison/dulcis-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	require.Equal(t, "projects/dulcis/topics/events", TopicResourceName("dulcis", "events"))
	require.Equal(t, "projects/other/topics/x", TopicResourceName("dulcis", "projects/other/topics/x"))
	require.Empty(t, TopicResourceName("", "events"))
	require.Empty(t, TopicResourceName("dulcis", "  "))
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{EventsTopic: "events"}, nil)
	require.ErrorIs(t, err, errProjectIDRequired)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	require.Nil(t, c.Publisher("events"))
	require.Error(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())
}
