package application

// AccessGate decides whether a (chat, user) pair may invoke any command.
// Each restriction set is independently optional: an empty set places no
// restriction on that dimension, so two empty sets mean open access.
type AccessGate struct {
	chats map[int64]struct{}
	users map[int64]struct{}
}

func NewAccessGate(chatIDs, userIDs []int64) *AccessGate {
	gate := &AccessGate{
		chats: make(map[int64]struct{}, len(chatIDs)),
		users: make(map[int64]struct{}, len(userIDs)),
	}
	for _, id := range chatIDs {
		gate.chats[id] = struct{}{}
	}
	for _, id := range userIDs {
		gate.users[id] = struct{}{}
	}
	return gate
}

func (g *AccessGate) Allowed(chatID, userID int64) bool {
	if len(g.chats) > 0 {
		if _, ok := g.chats[chatID]; !ok {
			return false
		}
	}
	if len(g.users) > 0 {
		if _, ok := g.users[userID]; !ok {
			return false
		}
	}
	return true
}
