package projection

import "fmt"

// windowStore serves a child's text from its parent's window.
type windowStore struct {
	child *ChildDocument
}

func (s *windowStore) Len() int {
	return s.child.window.Length
}

func (s *windowStore) Char(offset int) (byte, error) {
	if offset < 0 || offset >= s.Len() {
		return 0, fmt.Errorf("%w: offset %d", ErrOutOfRange, offset)
	}
	return s.child.parent.Char(s.child.window.Offset + offset)
}

func (s *windowStore) Text(offset, length int) (string, error) {
	if !s.valid(offset, length) {
		return "", fmt.Errorf("%w: [%d:%d) of window length %d", ErrOutOfRange, offset, offset+length, s.Len())
	}
	return s.child.parent.GetRange(s.child.window.Offset+offset, length)
}

// Replace forwards the edit to the parent. The child's own listener and
// window updater recognise it as a child edit while selfEdit is set.
func (s *windowStore) Replace(offset, length int, text string) error {
	if !s.valid(offset, length) {
		return fmt.Errorf("%w: [%d:%d) of window length %d", ErrOutOfRange, offset, offset+length, s.Len())
	}
	s.child.selfEdit = true
	defer func() { s.child.selfEdit = false }()
	return s.child.parent.Replace(s.child.window.Offset+offset, length, text)
}

func (s *windowStore) Set(text string) {
	if err := s.Replace(0, s.Len(), text); err != nil {
		s.child.logger.Warn("setting child content failed: %v", err)
	}
}

func (s *windowStore) valid(offset, length int) bool {
	n := s.Len()
	return offset >= 0 && length >= 0 && offset <= n && length <= n-offset
}
