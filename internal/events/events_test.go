package events

import (
	"context"
	"testing"

	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_EmptyURL(t *testing.T) {
	pub, err := NewPublisher("", nil)
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), schema.SubjectSubmissionCreated, schema.SubmissionCreatedEvent{}))
	assert.NoError(t, pub.Close())
}

func TestNewPublisher_Unreachable(t *testing.T) {
	_, err := NewPublisher("nats://127.0.0.1:1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats connect")
}

func TestMockPublisher(t *testing.T) {
	m := &MockPublisher{}
	m.On("Publish", context.Background(), schema.SubjectConsensusCompleted, "payload").Return(nil)
	require.NoError(t, m.Publish(context.Background(), schema.SubjectConsensusCompleted, "payload"))
	m.AssertExpectations(t)
}
