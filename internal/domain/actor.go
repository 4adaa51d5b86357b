package domain

// ActorID identifies whoever issues commands and triggers callbacks.
type ActorID string

type Actor struct {
	ID   ActorID
	Name string
}

// CallbackToken is a single-use key binding an external trigger to a
// pending action.
type CallbackToken string

// Trigger is what arrives when an actor invokes a callback token. Input is
// any free text the actor appended to the trigger message.
type Trigger struct {
	Actor Actor
	Input string
}
