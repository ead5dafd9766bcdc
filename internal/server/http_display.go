package server

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// displayServerInfo prints the route table and the protection settings to stdout
func (s *Server) displayServerInfo() {
	s.describe(os.Stdout)
}

func (s *Server) describe(w io.Writer) {
	fmt.Fprintln(w, "Routes:")
	for _, rt := range routes {
		method, path, _ := strings.Cut(rt.pattern, " ")
		marker := ""
		if rt.protected {
			marker = " *"
		}
		fmt.Fprintf(w, "  %-6s %-24s %s%s\n", method, path, rt.summary, marker)
	}
	fmt.Fprintln(w, "  (* guarded by auth, rate limit and size limit)")

	switch n := len(s.APIKeys); n {
	case 0:
		fmt.Fprintln(w, "Auth: off, guarded routes accept anonymous requests")
	default:
		fmt.Fprintf(w, "Auth: %d key(s), send X-API-Key or Authorization: Bearer\n", n)
	}

	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Body limit: %d bytes\n", s.MaxRequestSize)
	} else {
		fmt.Fprintln(w, "Body limit: none")
	}

	rl := s.RateLimit
	if rl == nil || !rl.Enabled {
		fmt.Fprintln(w, "Rate limit: off")
		return
	}
	var keys []string
	if rl.ByAPIKey {
		keys = append(keys, "api key")
	}
	if rl.ByIP {
		keys = append(keys, "client ip")
	}
	if len(keys) == 0 {
		fmt.Fprintln(w, "Rate limit: on, but no key source is selected so nothing is limited")
		return
	}
	fmt.Fprintf(w, "Rate limit: %d/min, burst %d, keyed by %s\n",
		rl.RequestsPerMin, rl.BurstCapacity, strings.Join(keys, " then "))
}
