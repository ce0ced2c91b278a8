// internal/view/uahelpers.go
//
// User-agent-related template helpers.  Templates that receive a
// *requestinfo.UA (stashed under .Data) can branch on browser or device
// class without reparsing headers.
package view

import (
	"html/template"

	"github.com/yanizio/skiff/internal/requestinfo"
)

// uaFuncMap returns helpers keyed off *requestinfo.UA.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser":        func(ua *requestinfo.UA) string { return ua.Browser },
		"browserVersion": func(ua *requestinfo.UA) string { return ua.Version },
		"os":             func(ua *requestinfo.UA) string { return ua.OS },
		"osVersion":      func(ua *requestinfo.UA) string { return ua.OSVersion },
		"device":         func(ua *requestinfo.UA) string { return ua.Device },
		"platform":       func(ua *requestinfo.UA) string { return ua.Platform },
		"isBot":          func(ua *requestinfo.UA) bool { return ua.IsBot },
	}
}
