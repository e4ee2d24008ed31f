package authz

import "github.com/youvshr/internal/db"

// Decision 是作者校验的结果
type Decision int

const (
	Forbidden Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "forbidden"
}

// CanModifyStory 仅故事作者可以编辑或删除故事，匿名访问者 (nil) 一律拒绝。
func CanModifyStory(actor *db.User, story *db.Story) Decision {
	if actor == nil || story == nil || actor.ID == 0 {
		return Forbidden
	}
	if story.AuthorID != actor.ID {
		return Forbidden
	}
	return Allowed
}

// CanModifyComment 仅评论作者可以编辑或删除评论
func CanModifyComment(actor *db.User, comment *db.Comment) Decision {
	if actor == nil || comment == nil || actor.ID == 0 {
		return Forbidden
	}
	if comment.AuthorID != actor.ID {
		return Forbidden
	}
	return Allowed
}
