package comments

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"blogfront/internal/models"
)

// MaxDepth is the deepest level that still shows its own indentation and the
// last level that cannot be replied to.
const MaxDepth = 5

const avatarVariants = 8

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// DepthStyle maps a nesting depth to its CSS classes. Depths past MaxDepth
// share the MaxDepth style.
func DepthStyle(depth int) string {
	depth = min(max(depth, 0), MaxDepth)
	return fmt.Sprintf("comment comment-depth-%d", depth)
}

// AvatarVariant picks one of eight avatar palettes from the sum of the
// username's code points.
func AvatarVariant(username string) int {
	sum := 0
	for _, r := range username {
		sum += int(r)
	}
	return sum % avatarVariants
}

func AvatarClass(username string) string {
	return fmt.Sprintf("avatar avatar-%d", AvatarVariant(username))
}

func Initial(username string) string {
	r, _ := utf8.DecodeRuneInString(username)
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

// CanModify reports whether user may edit or delete the comment: authors
// may touch their own comments, admins may touch anything.
func CanModify(c *models.Comment, user *models.User, isAdmin bool) bool {
	if user == nil || c == nil {
		return false
	}
	return user.Username == c.Username || isAdmin
}

func CanReply(depth int) bool {
	return depth < MaxDepth
}

// ExtractMentions returns each mentioned username once, in order of first
// appearance.
func ExtractMentions(content string) []string {
	seen := make(map[string]bool)
	var mentions []string
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			mentions = append(mentions, m[1])
		}
	}
	return mentions
}

func HighlightMentions(content string) string {
	return mentionPattern.ReplaceAllString(content, `<span class="mention">@$1</span>`)
}

// MentionsHTML escapes content before highlighting so only the mention
// markers end up as markup.
func MentionsHTML(content string) template.HTML {
	return template.HTML(HighlightMentions(template.HTMLEscapeString(content)))
}

func Truncate(content string, maxLength int) string {
	if utf8.RuneCountInString(content) <= maxLength {
		return content
	}
	runes := []rune(content)
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}

func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
	return t.Format("Jan 2, 2006")
}
