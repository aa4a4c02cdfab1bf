package analytics

import (
	"github.com/google/uuid"
)

const (
	ConsentKey  = "consent:analytics"
	ClientIDKey = "analytics:client_id"

	consentGranted = "granted"
	consentDenied  = "denied"
)

// Store persists consent and the client id, util/cache.Cache satisfies it.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

func HasConsent(store Store) bool {
	if store == nil {
		return false
	}
	v, found := store.Get(ConsentKey)
	return found && v == consentGranted
}

func SetConsent(store Store, granted bool) error {
	if granted {
		return store.Set(ConsentKey, consentGranted)
	}
	return store.Set(ConsentKey, consentDenied)
}

// ClientID returns the anonymous id events are reported under, generating
// and persisting a random one on first use.
func ClientID(store Store) string {
	if id, found := store.Get(ClientIDKey); found && id != "" {
		return id
	}
	id := uuid.NewString()
	if err := store.Set(ClientIDKey, id); err != nil {
		log.WithError(err).Warn("couldn't persist analytics client id")
	}
	return id
}
