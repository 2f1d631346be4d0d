package auth

import "context"

// LocalVerifier validates tokens minted by this service's own Codec.
// Pure computation, no I/O; it runs on every guarded request.
type LocalVerifier struct {
	codec *Codec
}

var _ Verifier = (*LocalVerifier)(nil)

func NewLocalVerifier(codec *Codec) *LocalVerifier {
	return &LocalVerifier{codec: codec}
}

func (v *LocalVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	return v.codec.ParseAccess(token)
}
