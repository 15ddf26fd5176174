package mailer

import "net/mail"

// Tags are provider tags attached to a message.
// A struct{}{} value marks a presence-only tag.
type Tags map[string]any

// SimpleTags creates presence-only tags.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and address as an RFC 5322 address.
// The name is quoted when needed. Without a name the bare address is returned.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}

// Email is a message ready for sending.
type Email struct {
	Headers map[string]string
	Tags    Tags
	Subject string
	HTML    string
	Text    string
	From    string // overrides the provider's default sender
	ReplyTo string
	To      []string
	CC      []string
	BCC     []string
}

// Validate checks the fields every provider requires.
func (e *Email) Validate() error {
	switch {
	case e == nil || len(e.To) == 0:
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "":
		return ErrNoContent
	}
	return nil
}
