package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// applyResourceBlocking fails requests for the configured resource types.
// Names may be singular CDP types or their plurals ("image" or "images").
// The returned router must be stopped when the tab goes away.
func applyResourceBlocking(page *rod.Page, types []string) (*rod.HijackRouter, error) {
	blocked := blockSet(types)

	router := page.HijackRequests()
	err := router.Add("*", "", func(ctx *rod.Hijack) {
		if shouldBlock(blocked, string(ctx.Request.Type())) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return nil, err
	}

	go router.Run()
	return router, nil
}

// pluralTypes maps config plurals to CDP resource types.
var pluralTypes = map[string]string{
	"images":      "image",
	"fonts":       "font",
	"stylesheets": "stylesheet",
	"scripts":     "script",
	"documents":   "document",
}

// blockSet normalises config names to lower-case CDP resource types.
func blockSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		name := strings.ToLower(strings.TrimSpace(t))
		if cdp, ok := pluralTypes[name]; ok {
			name = cdp
		}
		set[name] = true
	}
	return set
}

func shouldBlock(blocked map[string]bool, resType string) bool {
	return blocked[strings.ToLower(resType)]
}
