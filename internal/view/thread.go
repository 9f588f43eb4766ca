// Package view turns a comment tree and the UI state carried in the query
// string into what the comment templates render.
package view

import (
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"blogfront/internal/comments"
	"blogfront/internal/models"
	"blogfront/internal/service"
	"blogfront/internal/session"
)

// UIState is the client-local state of a comment section. It lives in the
// URL so every transition is a plain link.
type UIState struct {
	Sort             comments.SortOrder
	Edit             int64
	Reply            int64
	Collapsed        map[int64]bool
	SectionCollapsed bool

	// Draft and Error belong to the node named by Edit or Reply, or to the
	// new comment form when both are zero.
	Draft string
	Error string
}

func ParseUIState(q url.Values) UIState {
	ui := UIState{
		Sort:             comments.ParseSortOrder(q.Get("sort")),
		Edit:             parseID(q.Get("edit")),
		Reply:            parseID(q.Get("reply")),
		Collapsed:        map[int64]bool{},
		SectionCollapsed: q.Get("hide") == "1",
	}
	for _, part := range strings.Split(q.Get("collapsed"), ",") {
		if id := parseID(part); id > 0 {
			ui.Collapsed[id] = true
		}
	}
	return ui
}

// Query encodes the state back. Drafts and errors are never put in a URL.
func (u UIState) Query() url.Values {
	q := url.Values{}
	if u.Sort == comments.Oldest {
		q.Set("sort", string(comments.Oldest))
	}
	if u.Edit > 0 {
		q.Set("edit", strconv.FormatInt(u.Edit, 10))
	}
	if u.Reply > 0 {
		q.Set("reply", strconv.FormatInt(u.Reply, 10))
	}
	if ids := u.collapsedIDs(); len(ids) > 0 {
		q.Set("collapsed", strings.Join(ids, ","))
	}
	if u.SectionCollapsed {
		q.Set("hide", "1")
	}
	return q
}

func (u UIState) clone() UIState {
	c := u
	c.Collapsed = make(map[int64]bool, len(u.Collapsed))
	for k, v := range u.Collapsed {
		c.Collapsed[k] = v
	}
	c.Draft, c.Error = "", ""
	return c
}

func (u UIState) collapsedIDs() []string {
	ids := make([]int64, 0, len(u.Collapsed))
	for id, on := range u.Collapsed {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

type CommentNode struct {
	Comment      *models.Comment
	Depth        int
	DepthClass   string
	AvatarClass  string
	Initial      string
	Content      template.HTML
	RelativeTime string
	Edited       bool

	CanModify  bool
	CanReply   bool
	Editing    bool
	ReplyOpen  bool
	Expanded   bool
	Draft      string
	ReplyDraft string
	Error      string

	EditURL   string
	ReplyURL  string
	ToggleURL string
	CancelURL string

	// form targets
	PostURL   string
	SaveURL   string
	DeleteURL string

	Replies []*CommentNode
}

// Thread is the whole section as rendered.
type Thread struct {
	Nodes      []*CommentNode
	Total      int
	Sort       comments.SortOrder
	Collapsed  bool
	NewestURL  string
	OldestURL  string
	ToggleURL  string
	PostURL    string
	Draft      string
	Error      string
	CanComment bool
	Stats      comments.Stats
}

// BuildThread walks roots with an explicit stack, so arbitrarily deep trees
// cannot exhaust the call stack. Top-level comments are sorted; replies keep
// server order.
func BuildThread(basePath string, roots []*models.Comment, sess *session.Session, ui UIState, now time.Time) *Thread {
	ui.Sort = comments.ParseSortOrder(string(ui.Sort))
	t := &Thread{
		Total:      comments.TotalCount(roots),
		Sort:       ui.Sort,
		Collapsed:  ui.SectionCollapsed,
		CanComment: sess.IsAuthenticated(),
		Stats:      comments.ComputeStats(roots),
	}

	newest, oldest, toggle := ui.clone(), ui.clone(), ui.clone()
	newest.Sort, oldest.Sort = comments.Newest, comments.Oldest
	toggle.SectionCollapsed = !ui.SectionCollapsed
	t.NewestURL = link(basePath, newest, "comments")
	t.OldestURL = link(basePath, oldest, "comments")
	t.ToggleURL = link(basePath, toggle, "comments")
	t.PostURL = link(basePath+"/comments", settled(ui), "")
	if ui.Edit == 0 && ui.Reply == 0 {
		t.Draft, t.Error = ui.Draft, ui.Error
	}

	type item struct {
		c      *models.Comment
		depth  int
		parent *CommentNode
	}

	// set once the form named by Edit or Reply is open on some node
	placed := false

	sorted := comments.Sort(roots, ui.Sort)
	stack := make([]item, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		stack = append(stack, item{c: sorted[i]})
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.c == nil {
			continue
		}

		n := buildNode(basePath, it.c, it.depth, sess, ui, now)
		if n.Editing || n.ReplyOpen {
			placed = true
		}
		if it.parent == nil {
			t.Nodes = append(t.Nodes, n)
		} else {
			it.parent.Replies = append(it.parent.Replies, n)
		}

		for i := len(it.c.Replies) - 1; i >= 0; i-- {
			stack = append(stack, item{c: it.c.Replies[i], depth: it.depth + 1, parent: n})
		}
	}

	if !placed && (ui.Edit != 0 || ui.Reply != 0) {
		t.Error = ui.Error
	}
	return t
}

func buildNode(basePath string, c *models.Comment, depth int, sess *session.Session, ui UIState, now time.Time) *CommentNode {
	state := service.NewNodeState(c, depth)
	if ui.Edit == c.ID {
		// refused silently for users who may not edit
		_ = state.BeginEdit(sess.User, sess.IsAdmin())
	}
	if ui.Reply == c.ID && sess.IsAuthenticated() {
		_ = state.OpenReply()
	}
	if ui.Collapsed[c.ID] {
		state.ToggleExpanded()
	}

	n := &CommentNode{
		Comment:      c,
		Depth:        depth,
		DepthClass:   comments.DepthStyle(depth),
		AvatarClass:  comments.AvatarClass(c.Username),
		Initial:      comments.Initial(c.Username),
		Content:      comments.MentionsHTML(c.Content),
		RelativeTime: comments.FormatRelativeTime(c.CreatedAt.Time, now),
		Edited:       c.Edited(),
		CanModify:    comments.CanModify(c, sess.User, sess.IsAdmin()),
		CanReply:     sess.IsAuthenticated() && comments.CanReply(depth),
		Editing:      state.Mode == service.Editing,
		ReplyOpen:    state.ReplyOpen,
		Expanded:     state.Expanded,
		Draft:        state.Draft,
	}
	if n.Editing {
		if ui.Draft != "" {
			n.Draft = ui.Draft
		}
		n.Error = ui.Error
	} else if n.ReplyOpen {
		n.ReplyDraft = ui.Draft
		n.Error = ui.Error
	}

	anchor := fmt.Sprintf("comment-%d", c.ID)

	edit := ui.clone()
	edit.Edit, edit.Reply = c.ID, 0
	n.EditURL = link(basePath, edit, anchor)

	reply := ui.clone()
	reply.Reply, reply.Edit = c.ID, 0
	n.ReplyURL = link(basePath, reply, anchor)

	toggle := ui.clone()
	toggle.Collapsed[c.ID] = !ui.Collapsed[c.ID]
	n.ToggleURL = link(basePath, toggle, anchor)

	cancel := settled(ui)
	n.CancelURL = link(basePath, cancel, anchor)

	n.PostURL = link(basePath+"/comments", cancel, "")
	n.SaveURL = link(fmt.Sprintf("%s/comments/%d/edit", basePath, c.ID), cancel, "")
	n.DeleteURL = link(fmt.Sprintf("%s/comments/%d/delete", basePath, c.ID), cancel, "")

	return n
}

// settled is ui with no form open.
func settled(ui UIState) UIState {
	c := ui.clone()
	c.Edit, c.Reply = 0, 0
	return c
}

// Settled is the state to return to once a comment form is done.
func (u UIState) Settled() UIState {
	return settled(u)
}

// Link is the page URL at basePath showing state u.
func (u UIState) Link(basePath, anchor string) string {
	return link(basePath, u, anchor)
}

func link(basePath string, ui UIState, anchor string) string {
	u := basePath
	if q := ui.Query().Encode(); q != "" {
		u += "?" + q
	}
	if anchor != "" {
		u += "#" + anchor
	}
	return u
}
