package util

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
	Replies  []node
}

func buildNodes(rows []node) []node {
	return BuildTree(rows,
		func(n node) uuid.UUID { return n.ID },
		func(n node) *uuid.UUID { return n.ParentID },
		func(n *node, r []node) { n.Replies = r },
	)
}

func TestBuildTree_NestedReplies(t *testing.T) {
	id1, id2, id3, id4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	rows := []node{
		{ID: id1},
		{ID: id2, ParentID: &id1},
		{ID: id3, ParentID: &id1},
		{ID: id4, ParentID: &id2},
	}

	roots := buildNodes(rows)
	require.Len(t, roots, 1)
	assert.Equal(t, id1, roots[0].ID)

	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, id2, roots[0].Replies[0].ID)
	assert.Equal(t, id3, roots[0].Replies[1].ID)

	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, id4, roots[0].Replies[0].Replies[0].ID)
	assert.Empty(t, roots[0].Replies[1].Replies)
}

func TestBuildTree_PreservesOrderAndDropsOrphans(t *testing.T) {
	a, b, missing, orphan := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	rows := []node{
		{ID: b},
		{ID: orphan, ParentID: &missing},
		{ID: a},
	}

	roots := buildNodes(rows)
	require.Len(t, roots, 2)
	assert.Equal(t, b, roots[0].ID)
	assert.Equal(t, a, roots[1].ID)
}

func TestBuildTree_CycleIsUnreachable(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rows := []node{
		{ID: a, ParentID: &b},
		{ID: b, ParentID: &a},
	}
	assert.Empty(t, buildNodes(rows))
}
