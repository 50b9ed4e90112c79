package messages

// ─── Social ──────────────────────────────────────────────────────────────────

const (
	LikeTitle   = "Nova curtida"
	LikeMessage = "%s curtiu sua história"

	CommentTitle   = "Novo comentário"
	CommentMessage = "%s comentou na sua história"

	MentionTitle   = "Você foi mencionado"
	MentionMessage = "%s mencionou você em um comentário"
)

// DefaultActorName is used when the acting user has no display name.
const DefaultActorName = "Usuário"
