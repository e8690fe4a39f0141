package credentials

// Credential wraps a federated access token issued by the orchestrating
// service. The policy flags are fixed: federated flows never prompt and
// never fall back to the ambient process identity.
type Credential struct {
	accessToken        string
	promptAllowed      bool
	useAmbientIdentity bool
}

// NewFederated builds a credential from an externally issued access token.
func NewFederated(accessToken string) *Credential {
	return &Credential{accessToken: accessToken}
}

// AccessToken returns the federated access token.
func (c *Credential) AccessToken() string {
	if c == nil {
		return ""
	}
	return c.accessToken
}

// PromptAllowed reports whether interactive prompting is permitted.
func (c *Credential) PromptAllowed() bool {
	return c != nil && c.promptAllowed
}

// UsesAmbientIdentity reports whether the ambient process identity may be
// used in place of the token.
func (c *Credential) UsesAmbientIdentity() bool {
	return c != nil && c.useAmbientIdentity
}
