package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
)

// Exit codes of the client commands.
const (
	exitOK         = 0
	exitError      = 1
	exitValidation = 2
	exitConflict   = 3
	exitNotFound   = 4
)

// apiCall sends a request to the server and decodes the JSON response into
// out (when non-nil). Non-2xx responses are printed and terminate the
// process with the matching exit code.
func apiCall(method, path string, body any, out any) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			log.Fatal().Err(err).Msg("encode request")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, rootFlags.server+path, reqBody)
	if err != nil {
		log.Fatal().Err(err).Msg("build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("server", rootFlags.server).Msg("request failed")
		os.Exit(exitError)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		fmt.Fprintln(os.Stderr, "error:", e.Error)
		os.Exit(exitCodeFor(resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatal().Err(err).Msg("decode response")
		}
	}
}

func exitCodeFor(status int) int {
	switch status {
	case http.StatusBadRequest:
		return exitValidation
	case http.StatusConflict:
		return exitConflict
	case http.StatusNotFound:
		return exitNotFound
	default:
		return exitError
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode output")
	}
	fmt.Println(string(data))
}
