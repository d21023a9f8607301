package utils

import "math/rand"

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const StudentCodeLength = 6

// GenerateStudentCode returns a short human-readable code students share with
// parents and teachers. Uniqueness is enforced by the caller against the
// student collection's sparse unique index.
func GenerateStudentCode() string {
	b := make([]byte, StudentCodeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}
