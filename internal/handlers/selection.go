package handlers

import (
	"net/url"
	"strings"
)

// queryValues returns the values of key, splitting comma separated lists,
// or nil when key is absent from the query.
func queryValues(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, strings.Split(v, ",")...)
	}
	return values
}

// signalValues copies a datastar array signal, keeping nil for a signal the
// page did not send.
func signalValues(signal *[]string) []string {
	if signal == nil {
		return nil
	}
	return append([]string{}, *signal...)
}
