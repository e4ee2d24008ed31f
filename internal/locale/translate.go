package locale

import "fmt"

// 提示文案的 key
const (
	MsgStoryCreated      = "story.created"
	MsgStoryUpdated      = "story.updated"
	MsgStoryDeleted      = "story.deleted"
	MsgStoryEditDenied   = "story.edit_denied"
	MsgStoryDeleteDenied = "story.delete_denied"

	MsgCommentSubmitted    = "comment.submitted"
	MsgCommentUpdated      = "comment.updated"
	MsgCommentDeleted      = "comment.deleted"
	MsgCommentEditDenied   = "comment.edit_denied"
	MsgCommentDeleteDenied = "comment.delete_denied"
	MsgCommentsApproved    = "comment.approved"
	MsgNoCommentsSelected  = "comment.none_selected"

	MsgLoginRequired     = "auth.login_required"
	MsgWelcomeBack       = "auth.welcome_back"
	MsgAccountCreated    = "auth.account_created"
	MsgLoggedOut         = "auth.logged_out"
	MsgModeratorRequired = "auth.moderator_required"
	MsgRateLimited       = "auth.rate_limited"
	MsgInvalidLogin      = "auth.invalid_login"
)

var messages = map[string]map[string]string{
	LanguageEnglish: {
		MsgStoryCreated:      "Your story has been published!",
		MsgStoryUpdated:      "Your story has been updated!",
		MsgStoryDeleted:      "Your story has been deleted.",
		MsgStoryEditDenied:   "You can only edit your own stories.",
		MsgStoryDeleteDenied: "You can only delete your own stories.",

		MsgCommentSubmitted:    "Your comment has been submitted and is awaiting approval.",
		MsgCommentUpdated:      "Your comment has been updated and is awaiting approval.",
		MsgCommentDeleted:      "Your comment has been deleted.",
		MsgCommentEditDenied:   "You can only edit your own comments.",
		MsgCommentDeleteDenied: "You can only delete your own comments.",
		MsgCommentsApproved:    "%d comment(s) approved successfully.",
		MsgNoCommentsSelected:  "No comments were selected.",

		MsgLoginRequired:     "Please log in to continue.",
		MsgWelcomeBack:       "Welcome back, %s!",
		MsgAccountCreated:    "Account created successfully! Welcome to %s.",
		MsgLoggedOut:         "Logged out successfully!",
		MsgModeratorRequired: "You do not have permission to moderate comments.",
		MsgRateLimited:       "Too many attempts. Please try again in %d seconds.",
		MsgInvalidLogin:      "Please enter a correct username and password. Note that both fields may be case-sensitive.",
	},
	LanguageChinese: {
		MsgStoryCreated:      "故事已发布！",
		MsgStoryUpdated:      "故事已更新！",
		MsgStoryDeleted:      "故事已删除。",
		MsgStoryEditDenied:   "只能编辑自己的故事。",
		MsgStoryDeleteDenied: "只能删除自己的故事。",

		MsgCommentSubmitted:    "评论已提交，等待审核。",
		MsgCommentUpdated:      "评论已更新，等待重新审核。",
		MsgCommentDeleted:      "评论已删除。",
		MsgCommentEditDenied:   "只能编辑自己的评论。",
		MsgCommentDeleteDenied: "只能删除自己的评论。",
		MsgCommentsApproved:    "已成功通过 %d 条评论。",
		MsgNoCommentsSelected:  "未选择任何评论。",

		MsgLoginRequired:     "请先登录。",
		MsgWelcomeBack:       "欢迎回来，%s！",
		MsgAccountCreated:    "注册成功！欢迎来到 %s。",
		MsgLoggedOut:         "已退出登录。",
		MsgModeratorRequired: "没有审核评论的权限。",
		MsgRateLimited:       "尝试次数过多，请在 %d 秒后重试。",
		MsgInvalidLogin:      "用户名或密码错误，请注意区分大小写。",
	},
}

// T 返回指定语言的文案，缺失时回落到英文，再缺失则返回 key 本身。
func T(language, key string, args ...interface{}) string {
	lang := NormalizeLanguage(language)
	if lang == "" {
		lang = LanguageEnglish
	}
	text, ok := messages[lang][key]
	if !ok {
		text, ok = messages[LanguageEnglish][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// Pick returns the text matching the request language, defaulting to English.
func Pick(language, english, chinese string) string {
	if NormalizeLanguage(language) == LanguageChinese {
		if chinese != "" {
			return chinese
		}
		return english
	}
	if english != "" {
		return english
	}
	return chinese
}
