package service

import (
	"context"

	"blogfront/internal/apperr"
	"blogfront/internal/comments"
	"blogfront/internal/models"
)

type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// NodeState is the per-comment UI state. It never changes the comment
// itself; saving and replying go through the callbacks the section hands in.
type NodeState struct {
	Comment    *models.Comment
	Depth      int
	Mode       Mode
	ReplyOpen  bool
	Expanded   bool
	Draft      string
	ReplyDraft string
	Err        error
}

func NewNodeState(c *models.Comment, depth int) *NodeState {
	return &NodeState{
		Comment:  c,
		Depth:    depth,
		Expanded: true,
		Draft:    c.Content,
	}
}

func (n *NodeState) BeginEdit(user *models.User, isAdmin bool) error {
	if !comments.CanModify(n.Comment, user, isAdmin) {
		return apperr.New(apperr.Auth, "comments.edit", "You can only edit your own comments")
	}
	n.Mode = Editing
	n.Draft = n.Comment.Content
	n.Err = nil
	return nil
}

// SaveEdit leaves the node in Editing with Err set when content is invalid
// or save fails.
func (n *NodeState) SaveEdit(ctx context.Context, content string, save func(ctx context.Context, content string) error) error {
	if n.Mode != Editing {
		return apperr.New(apperr.Validation, "comments.edit", "Comment is not being edited")
	}

	n.Draft = content
	if res := comments.Validate(content); !res.Valid {
		n.Err = apperr.New(apperr.Validation, "comments.edit", res.Error)
		return n.Err
	}

	if err := save(ctx, content); err != nil {
		n.Err = err
		return err
	}

	n.Mode = Viewing
	n.Err = nil
	return nil
}

func (n *NodeState) CancelEdit() {
	n.Mode = Viewing
	n.Draft = n.Comment.Content
	n.Err = nil
}

func (n *NodeState) OpenReply() error {
	if !comments.CanReply(n.Depth) {
		return apperr.New(apperr.Validation, "comments.reply", "Maximum reply depth reached")
	}
	n.ReplyOpen = true
	return nil
}

func (n *NodeState) CloseReply() {
	n.ReplyOpen = false
	n.ReplyDraft = ""
}

// SubmitReply closes the reply form only after reply succeeds.
func (n *NodeState) SubmitReply(ctx context.Context, content string, reply func(ctx context.Context, content string) error) error {
	if !n.ReplyOpen {
		if err := n.OpenReply(); err != nil {
			n.Err = err
			return err
		}
	}

	n.ReplyDraft = content
	if res := comments.Validate(content); !res.Valid {
		n.Err = apperr.New(apperr.Validation, "comments.reply", res.Error)
		return n.Err
	}

	if err := reply(ctx, content); err != nil {
		n.Err = err
		return err
	}

	n.CloseReply()
	n.Err = nil
	return nil
}

func (n *NodeState) ToggleExpanded() {
	n.Expanded = !n.Expanded
}
