package application

import (
	"fmt"
	"io"
	"strings"

	"github.com/eugenenazirov/platformsh-env/internal/mapper"
)

// dotenvEscaper escapes the characters dotenv parsers interpret inside double quotes.
var dotenvEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// WriteDotenv renders the assignments as KEY="value" lines.
func WriteDotenv(w io.Writer, plan []mapper.Assignment) error {
	for _, a := range plan {
		if _, err := fmt.Fprintf(w, "%s=\"%s\"\n", a.Name, dotenvEscaper.Replace(a.Value)); err != nil {
			return err
		}
	}
	return nil
}

// Environ appends the assignments to base in KEY=value form. Later entries
// win when the result is handed to os/exec.
func Environ(base []string, plan []mapper.Assignment) []string {
	env := make([]string, 0, len(base)+len(plan))
	env = append(env, base...)
	for _, a := range plan {
		env = append(env, a.Name+"="+a.Value)
	}
	return env
}
