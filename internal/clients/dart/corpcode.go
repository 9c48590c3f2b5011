package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// corpCodeFile is the XML directory inside the corpCode.zip download.
type corpCodeFile struct {
	List []struct {
		CorpCode  string `xml:"corp_code"`
		StockCode string `xml:"stock_code"`
	} `xml:"list"`
}

// resolveCorpCode maps a 6-digit stock code to DART's internal corp code.
// The full directory (~100k entries) is downloaded once per process and
// cached; an empty return means the code is not listed.
func (c *Client) resolveCorpCode(ctx context.Context, stockCode string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.corpByStock == nil {
		m, err := c.downloadCorpCodes(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load corp code directory: %w", err)
		}
		c.corpByStock = m
		c.logger.Info().Int("listed", len(m)).Msg("DART corp code directory loaded")
	}

	return c.corpByStock[stockCode], nil
}

func (c *Client) downloadCorpCodes(ctx context.Context) (map[string]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/corpCode.xml?crtfc_key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/corpCode.xml",
		}
	}

	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		// An API-level error (bad key, quota) comes back as XML, not a zip.
		return nil, fmt.Errorf("corp code response is not a zip archive: %s", truncate(string(body), 200))
	}

	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".xml") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		defer rc.Close()

		var parsed corpCodeFile
		if err := xml.NewDecoder(rc).Decode(&parsed); err != nil {
			return nil, fmt.Errorf("failed to decode corp code XML: %w", err)
		}

		m := make(map[string]string, len(parsed.List))
		for _, entry := range parsed.List {
			stock := strings.TrimSpace(entry.StockCode)
			if len(stock) != 6 {
				continue
			}
			m[stock] = strings.TrimSpace(entry.CorpCode)
		}
		return m, nil
	}

	return nil, fmt.Errorf("corp code archive contained no XML file")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
