package servo

import (
	"fmt"
	"strconv"
	"strings"
)

// commandPrefix starts every actuator line.
const commandPrefix = "ANGLE:"

// Command formats the actuator line for an angle, newline included.
func Command(angle int) string {
	return fmt.Sprintf("%s%d\n", commandPrefix, angle)
}

// ParseCommand reads an angle back out of an actuator line.
func ParseCommand(line string) (int, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, commandPrefix) {
		return 0, fmt.Errorf("missing %q prefix in %q", commandPrefix, line)
	}
	angle, err := strconv.Atoi(strings.TrimPrefix(line, commandPrefix))
	if err != nil {
		return 0, fmt.Errorf("parse angle: %w", err)
	}
	return angle, nil
}
