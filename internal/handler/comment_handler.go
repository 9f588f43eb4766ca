package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"blogfront/internal/apperr"
	"blogfront/internal/comments"
	"blogfront/internal/service"
	"blogfront/internal/session"
	"blogfront/internal/view"
)

// AddComment posts a top-level comment, or a reply when the form carries
// parent_id. On failure the page is shown again with the draft kept.
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	ctx := r.Context()
	sess := session.FromContext(ctx)
	if !sess.IsAuthenticated() {
		toLogin(w, r, blogPath(blogID))
		return
	}

	ui := view.ParseUIState(r.URL.Query())
	content := r.PostFormValue("content")
	parentID, _ := strconv.ParseInt(r.PostFormValue("parent_id"), 10, 64)

	section := h.CommentService.Section(blogID, nil)

	var err error
	if parentID > 0 {
		err = h.reply(ctx, sess, section, parentID, content)
	} else {
		err = section.Add(ctx, sess, content, nil)
	}
	if err != nil {
		ui.Draft, ui.Error = content, apperr.Message(err)
		if parentID > 0 {
			ui.Reply = parentID
		}
		h.showBlog(w, r, statusFor(err), blogID, ui, false)
		return
	}

	anchor := "comments"
	if parentID > 0 {
		anchor = fmt.Sprintf("comment-%d", parentID)
	}
	redirect(w, r, ui.Settled().Link(blogPath(blogID), anchor), "")
}

func (h *Handlers) reply(ctx context.Context, sess *session.Session, section *service.CommentSection, parentID int64, content string) error {
	node, err := h.commentNode(ctx, section, parentID)
	if err != nil {
		return err
	}
	return node.SubmitReply(ctx, content, func(ctx context.Context, content string) error {
		return section.Add(ctx, sess, content, &parentID)
	})
}

func (h *Handlers) EditComment(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathID(r, "id")
	commentID, ok2 := pathID(r, "cid")
	if !ok || !ok2 {
		h.NotFound(w, r)
		return
	}

	ctx := r.Context()
	sess := session.FromContext(ctx)
	if !sess.IsAuthenticated() {
		toLogin(w, r, blogPath(blogID))
		return
	}

	ui := view.ParseUIState(r.URL.Query())
	content := r.PostFormValue("content")
	section := h.CommentService.Section(blogID, nil)

	err := func() error {
		node, err := h.commentNode(ctx, section, commentID)
		if err != nil {
			return err
		}
		if err := node.BeginEdit(sess.User, sess.IsAdmin()); err != nil {
			return err
		}
		return node.SaveEdit(ctx, content, func(ctx context.Context, content string) error {
			return section.Update(ctx, sess, commentID, content)
		})
	}()
	if err != nil {
		ui.Draft, ui.Error = content, apperr.Message(err)
		ui.Edit, ui.Reply = commentID, 0
		h.showBlog(w, r, statusFor(err), blogID, ui, false)
		return
	}

	redirect(w, r, ui.Settled().Link(blogPath(blogID), fmt.Sprintf("comment-%d", commentID)), "")
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathID(r, "id")
	commentID, ok2 := pathID(r, "cid")
	if !ok || !ok2 {
		h.NotFound(w, r)
		return
	}

	ctx := r.Context()
	sess := session.FromContext(ctx)
	if !sess.IsAuthenticated() {
		toLogin(w, r, blogPath(blogID))
		return
	}

	ui := view.ParseUIState(r.URL.Query())
	section := h.CommentService.Section(blogID, nil)

	if err := section.Delete(ctx, sess, commentID); err != nil {
		ui = ui.Settled()
		ui.Error = apperr.Message(err)
		h.showBlog(w, r, statusFor(err), blogID, ui, false)
		return
	}

	redirect(w, r, ui.Settled().Link(blogPath(blogID), "comments"), "Comment deleted")
}

// commentNode loads the section and returns the state of one of its nodes.
func (h *Handlers) commentNode(ctx context.Context, section *service.CommentSection, commentID int64) (*service.NodeState, error) {
	if err := section.Load(ctx); err != nil {
		return nil, err
	}
	c, ok := comments.FindByID(section.Tree(), commentID)
	if !ok {
		return nil, apperr.New(apperr.NotFound, "comments.find", "Comment not found")
	}
	return service.NewNodeState(c, comments.Depth(section.Tree(), commentID)), nil
}
