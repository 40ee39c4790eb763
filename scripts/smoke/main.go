// Command smoke probes a running API instance with the seeded accounts and
// reports which routes answer as expected. It is a deploy check, not a test
// suite.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type probe struct {
	Name     string
	Method   string
	Path     string
	Account  string
	Expected int
}

type result struct {
	Probe    probe
	Status   int
	Duration time.Duration
	Error    error
}

var probes = []probe{
	{Name: "dashboard admin", Method: http.MethodGet, Path: "/dashboard", Account: "@admin", Expected: http.StatusOK},
	{Name: "dashboard lecturer", Method: http.MethodGet, Path: "/dashboard", Account: "GV001", Expected: http.StatusOK},
	{Name: "catalog student", Method: http.MethodGet, Path: "/courses", Account: "20230001", Expected: http.StatusOK},
	{Name: "my enrollments", Method: http.MethodGet, Path: "/courses/my", Account: "20230001", Expected: http.StatusOK},
	{Name: "grades student scope", Method: http.MethodGet, Path: "/grades", Account: "20230001", Expected: http.StatusOK},
	{Name: "grades lecturer scope", Method: http.MethodGet, Path: "/grades", Account: "GV001", Expected: http.StatusOK},
	{Name: "payments student scope", Method: http.MethodGet, Path: "/payments", Account: "20230001", Expected: http.StatusOK},
	{Name: "payment summary admin", Method: http.MethodGet, Path: "/payments/summary", Account: "@admin", Expected: http.StatusOK},
	{Name: "payment summary student", Method: http.MethodGet, Path: "/payments/summary", Account: "20230001", Expected: http.StatusOK},
	{Name: "students list admin", Method: http.MethodGet, Path: "/students", Account: "@admin", Expected: http.StatusOK},
	{Name: "users list admin", Method: http.MethodGet, Path: "/users", Account: "@admin", Expected: http.StatusOK},
	{Name: "users list forbidden", Method: http.MethodGet, Path: "/users", Account: "20230001", Expected: http.StatusForbidden},
	{Name: "export forbidden", Method: http.MethodGet, Path: "/payments/export", Account: "20230001", Expected: http.StatusForbidden},
	{Name: "news list", Method: http.MethodGet, Path: "/news", Account: "GV001", Expected: http.StatusOK},
	{Name: "classes list", Method: http.MethodGet, Path: "/classes", Account: "@admin", Expected: http.StatusOK},
	{Name: "schedules list", Method: http.MethodGet, Path: "/schedules", Account: "GV001", Expected: http.StatusOK},
	{Name: "exams list", Method: http.MethodGet, Path: "/exams", Account: "20230001", Expected: http.StatusOK},
}

func main() {
	var (
		base     string
		prefix   string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.StringVar(&password, "password", "123456", "Seed account password")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	tokens := map[string]string{}
	for _, account := range []string{"@admin", "GV001", "20230001"} {
		token, err := login(client, base+prefix, account, password)
		if err != nil {
			log.Fatalf("login failed for %s: %v", account, err)
		}
		tokens[account] = token
	}

	var failed int
	results := make([]result, 0, len(probes))
	for _, p := range probes {
		res := run(client, base+prefix, tokens[p.Account], p)
		if res.Error != nil || res.Status != p.Expected {
			failed++
		}
		results = append(results, res)
	}

	for _, res := range results {
		mark := "ok"
		detail := fmt.Sprintf("%d in %s", res.Status, res.Duration.Round(time.Millisecond))
		if res.Error != nil {
			mark = "FAIL"
			detail = res.Error.Error()
		} else if res.Status != res.Probe.Expected {
			mark = "FAIL"
			detail = fmt.Sprintf("got %d, expected %d", res.Status, res.Probe.Expected)
		}
		fmt.Printf("%-4s %-28s %s %s (%s)\n", mark, res.Probe.Name, res.Probe.Method, res.Probe.Path, detail)
	}

	fmt.Printf("%d/%d probes passed\n", len(probes)-failed, len(probes))
	if failed > 0 {
		os.Exit(1)
	}
}

func login(client *http.Client, base, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(base+"/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}
	return envelope.Data.AccessToken, nil
}

func run(client *http.Client, base, token string, p probe) result {
	req, err := http.NewRequest(p.Method, base+p.Path, nil)
	if err != nil {
		return result{Probe: p, Error: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return result{Probe: p, Duration: duration, Error: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	return result{Probe: p, Status: resp.StatusCode, Duration: duration}
}
