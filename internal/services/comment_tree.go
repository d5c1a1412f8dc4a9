package services

import (
	"slices"

	"lingoboard/internal/models"
)

// BuildCommentTree returns the threaded comments of a post, roots oldest first.
// Soft-deleted comments stay in the tree so moderators can see the context.
func BuildCommentTree(postID string, comments []models.Comment, e *Enricher) []*models.CommentWithUser {
	return LinkCommentTree(EnrichPostComments(postID, comments, e))
}

// EnrichPostComments keeps the comments of postID, in input order, as fresh
// unlinked nodes.
func EnrichPostComments(postID string, comments []models.Comment, e *Enricher) []*models.CommentWithUser {
	nodes := make([]*models.CommentWithUser, 0)
	for _, c := range comments {
		if c.PostID != postID {
			continue
		}
		nodes = append(nodes, e.EnrichComment(c))
	}
	return nodes
}

// LinkCommentTree attaches every node to its parent and returns the roots.
// Replies keep input order; roots are stable sorted by created_at ascending.
// A node whose parent is missing, or whose parent chain leads back to itself,
// becomes a root, so every node ends up in exactly one place.
func LinkCommentTree(nodes []*models.CommentWithUser) []*models.CommentWithUser {
	byID := make(map[string]*models.CommentWithUser, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}
	parentOf := func(n *models.CommentWithUser) *models.CommentWithUser {
		if n.ParentCommentID == nil {
			return nil
		}
		return byID[*n.ParentCommentID]
	}
	cyclic := cyclicNodes(nodes, parentOf)

	roots := make([]*models.CommentWithUser, 0)
	for _, n := range nodes {
		p := parentOf(n)
		if p == nil || cyclic[n] {
			roots = append(roots, n)
			continue
		}
		p.Replies = append(p.Replies, n)
	}

	slices.SortStableFunc(roots, func(a, b *models.CommentWithUser) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return roots
}

// cyclicNodes marks the nodes that sit on a parent cycle. Each node is walked once.
func cyclicNodes(nodes []*models.CommentWithUser, parentOf func(*models.CommentWithUser) *models.CommentWithUser) map[*models.CommentWithUser]bool {
	const (
		unseen = iota
		walking
		settled
	)
	state := make(map[*models.CommentWithUser]int, len(nodes))
	cyclic := make(map[*models.CommentWithUser]bool)

	for _, start := range nodes {
		var path []*models.CommentWithUser
		n := start
		for n != nil && state[n] == unseen {
			state[n] = walking
			path = append(path, n)
			n = parentOf(n)
		}
		if n != nil && state[n] == walking {
			for _, c := range path[slices.Index(path, n):] {
				cyclic[c] = true
			}
		}
		for _, c := range path {
			state[c] = settled
		}
	}
	return cyclic
}

// CountTreeNodes counts every node reachable from roots.
func CountTreeNodes(roots []*models.CommentWithUser) int {
	count := 0
	stack := slices.Clone(roots)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Replies...)
	}
	return count
}
