/*
Package leadsdk is a Go client for the LeadGuard form integrity service.

A Client covers the public surface: minting form tokens, submitting
leads and the health probes.

	client := leadsdk.NewClient("https://leads.example.com")

	tok, err := client.GetFormToken(ctx, "/api/lead")
	if err != nil {
		return err
	}

	res, err := client.Submit(ctx, "/api/lead", tok.Token, map[string]any{
		"name":  "Dana Smith",
		"email": "dana@example.com",
	})

Form tokens are single use; request a fresh one for every submission. When
the token is bound to identity fields (GetBoundFormToken), the submission
must carry the same email and phone.

Admins log in to get a Session, which carries the bearer token for the
review endpoints:

	session, err := client.Login(ctx, "ops", password, totpCode)
	leads, err := session.ListLeads(ctx, leadsdk.LeadQuery{Status: "flagged"})
	_, err = session.Review(ctx, leads[0].ID, "accepted")

Errors returned by the service are *APIError values carrying the HTTP
status and error code.
*/
package leadsdk
