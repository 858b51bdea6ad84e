// Package session persists the authenticated admin session: the access token,
// the refresh token and the user profile. The three values are always written
// and cleared together; a store holding anything less reports no session.
package session
