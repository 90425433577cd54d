// ABOUTME: Logout: clears the in-memory session and its persisted entries

package client

// Logout destroys the session. Guard evaluations from here on redirect to
// login.
func (c *Client) Logout() error {
	c.logger.Info("logged out")
	return c.sessions.ClearAuth()
}
