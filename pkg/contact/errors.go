package contact

import "errors"

// ErrNotConfigured indicates the relay service id, template id or public key is empty.
var ErrNotConfigured = errors.New("contact: delivery is not configured")
