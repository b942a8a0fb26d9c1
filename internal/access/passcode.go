package access

// PasscodeVerifier decides whether a passcode unlocks the editor. The
// bundled implementation is a plain comparison against a shared value and
// is not a security boundary; a deployment that needs one substitutes a
// verifier backed by a server-side credential check.
type PasscodeVerifier interface {
	Verify(passcode string) bool
}

// StaticPasscode compares input verbatim against a configured secret.
type StaticPasscode string

func (s StaticPasscode) Verify(passcode string) bool {
	return string(s) == passcode
}

// VerifierFunc adapts a function to PasscodeVerifier.
type VerifierFunc func(passcode string) bool

func (f VerifierFunc) Verify(passcode string) bool {
	return f(passcode)
}
