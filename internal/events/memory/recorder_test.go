package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorderKeepsNewest(t *testing.T) {
	require := require.New(t)
	r := NewRecorder(2)
	ctx := context.Background()
	require.NoError(r.Publish(ctx, "a", "k", 1))
	require.NoError(r.Publish(ctx, "b", "k", 2))
	require.NoError(r.Publish(ctx, "a", "k", 3))

	msgs := r.Messages()
	require.Len(msgs, 2)
	require.Equal(2, msgs[0].Event)
	require.Equal(3, msgs[1].Event)
	require.Len(r.Topic("a"), 1)
}
