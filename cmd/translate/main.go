// Command translate sends one translation request to a running server and
// prints the result. The text comes from the arguments joined with spaces,
// or from an interactive prompt when no arguments are given.
//
// Flags:
//
//	-api        translate endpoint (default $TRANSLATE_API or http://localhost:8080/translate)
//	-direction  auto, pt_to_em or em_to_pt (default auto)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type translateRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

type translateResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error"`
}

func main() {
	// .env first so flag defaults can come from it.
	godotenv.Load() //nolint:errcheck

	apiFlag := flag.String("api", envOr("TRANSLATE_API", "http://localhost:8080/translate"), "translate endpoint URL")
	directionFlag := flag.String("direction", "auto", "translation direction: auto, pt_to_em or em_to_pt")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Print("Text: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		text = strings.TrimSpace(line)
	}
	if text == "" {
		fmt.Println()
		return
	}

	translation, err := callAPI(*apiFlag, text, *directionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(translation)
}

func callAPI(endpoint, text, direction string) (string, error) {
	payload, err := json.Marshal(translateRequest{Text: text, Direction: direction})
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return "", fmt.Errorf("%s (status %d)", decoded.Error, resp.StatusCode)
		}
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return decoded.Translation, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
