package bracket

import "errors"

var (
	ErrTooFewParticipants     = errors.New("at least 2 participants required")
	ErrTooManyParticipants    = errors.New("double elimination supports at most 16 participants")
	ErrUnsupportedBracketSize = errors.New("unsupported bracket size")
	ErrRoundRobinTooLarge     = errors.New("round robin supports at most 64 participants")
)
