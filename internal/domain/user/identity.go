package user

import "strings"

// Identity is the authenticated caller as asserted by the identity provider.
// Subject is opaque and used as the booking owner key.
type Identity struct {
	subject string
	email   *Email
	role    Role
}

func NewIdentity(subject string, email string, role Role) (*Identity, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrMissingSubject
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	id := &Identity{subject: subject, role: role}
	if strings.TrimSpace(email) != "" {
		e, err := NewEmail(email)
		if err != nil {
			return nil, err
		}
		id.email = &e
	}
	return id, nil
}

func (i *Identity) Subject() string { return i.subject }
func (i *Identity) Role() Role      { return i.role }

// Email returns nil when the provider did not assert one.
func (i *Identity) Email() *string {
	if i.email == nil {
		return nil
	}
	v := i.email.Value()
	return &v
}
