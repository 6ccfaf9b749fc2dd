package identity

import (
	"github.com/bluesky-social/atauthn/syntax"
)

type DIDDocument struct {
	DID                syntax.DID              `json:"id"`
	AlsoKnownAs        []string                `json:"alsoKnownAs,omitempty"`
	VerificationMethod []DocVerificationMethod `json:"verificationMethod,omitempty"`
	Service            []DocService            `json:"service,omitempty"`
}

type DocVerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

type DocService struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// PDSEndpoint returns the service endpoint of the first service entry in
// the document, or an empty string if there are none.
//
// The first-entry rule is the tie-break this package commits to: entries
// are not filtered by service type or ID. PLC documents conventionally
// list the atproto PDS first.
func (doc *DIDDocument) PDSEndpoint() string {
	if len(doc.Service) == 0 {
		return ""
	}
	return doc.Service[0].ServiceEndpoint
}
