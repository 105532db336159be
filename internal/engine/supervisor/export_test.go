package supervisor

import "io"

// SetSuperuser overrides whether the supervisor may switch worker credentials.
func (s *Supervisor) SetSuperuser(superuser bool) {
	s.superuser = superuser
}

// SetOutput redirects worker output.
func (s *Supervisor) SetOutput(stdout, stderr io.Writer) {
	s.stdout, s.stderr = stdout, stderr
}
