// file: utils/flag_generator.go
package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateFlag produces a random flag for admins who do not want to invent
// one. The plaintext exists only in the admin's response; storage only ever
// sees its hash.
func GenerateFlag() string {
	part1 := strings.Replace(uuid.New().String(), "-", "", -1)[:12]
	part2 := strings.Replace(uuid.New().String(), "-", "", -1)[:12]
	return fmt.Sprintf("nova{%s-%s}", part1, part2)
}
