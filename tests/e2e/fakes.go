//go:build e2e

package e2e

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// FakeBakong stands in for the payment switch. Hashes are pending until the
// test settles or fails them.
type FakeBakong struct {
	server *httptest.Server

	mu        sync.Mutex
	codes     map[string]int
	checks    map[string]int
	generated []string
}

func NewFakeBakong() *FakeBakong {
	f := &FakeBakong{
		codes:  make(map[string]int),
		checks: make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/generate_khqr", f.generate)
	mux.HandleFunc("/v1/check_transaction_by_md5", f.check)
	f.server = httptest.NewServer(mux)
	return f
}

func (f *FakeBakong) URL() string { return f.server.URL }

func (f *FakeBakong) Close() { f.server.Close() }

func (f *FakeBakong) Settle(hash string) { f.setCode(hash, 0) }

func (f *FakeBakong) Fail(hash string) { f.setCode(hash, 3) }

func (f *FakeBakong) Checks(hash string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks[hash]
}

func (f *FakeBakong) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = make(map[string]int)
	f.checks = make(map[string]int)
	f.generated = nil
}

func (f *FakeBakong) setCode(hash string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[hash] = code
}

func (f *FakeBakong) generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount     float64 `json:"amount"`
		BillNumber string  `json:"billNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	qr := "00020101021229" + req.BillNumber
	sum := md5.Sum([]byte(qr))
	hash := hex.EncodeToString(sum[:])

	f.mu.Lock()
	f.codes[hash] = 1
	f.generated = append(f.generated, hash)
	f.mu.Unlock()

	writeJSON(w, map[string]any{"success": true, "qrImage": "data:image/png;base64," + qr, "md5": hash})
}

func (f *FakeBakong) check(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MD5 string `json:"md5"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.checks[req.MD5]++
	code, ok := f.codes[req.MD5]
	f.mu.Unlock()
	if !ok {
		code = 1
	}
	writeJSON(w, map[string]any{"responseCode": code, "responseMessage": "ok"})
}

// FakeTelegram records every sendMessage call.
type FakeTelegram struct {
	server *httptest.Server

	mu   sync.Mutex
	sent []TelegramMessage
}

type TelegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func NewFakeTelegram() *FakeTelegram {
	f := &FakeTelegram{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			http.NotFound(w, r)
			return
		}
		var msg TelegramMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.sent = append(f.sent, msg)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"ok": true})
	}))
	return f
}

func (f *FakeTelegram) URL() string { return f.server.URL }

func (f *FakeTelegram) Close() { f.server.Close() }

func (f *FakeTelegram) Sent() []TelegramMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TelegramMessage(nil), f.sent...)
}

func (f *FakeTelegram) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
