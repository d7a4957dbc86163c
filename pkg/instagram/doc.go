// Package instagram implements the Instagram OAuth token lifecycle and
// Graph API media retrieval.
//
// A Client holds the application credentials and a TokenState, and offers
// the flow as individual steps:
//
//	client := instagram.NewClient(clientID, clientSecret)
//	authURL := client.BuildAuthorizeURL("https://app.example/cb", nil)
//	// send the user to authURL, receive ?code=... on the redirect
//
//	if _, err := client.ExchangeCodeForShortLivedToken(ctx, code); err != nil {
//	    return err
//	}
//	res, err := client.ExchangeShortLivedForLongLivedToken(ctx)
//	if err != nil {
//	    return err
//	}
//	if apiErr := res.APIError(); apiErr != nil {
//	    return apiErr.AsError()
//	}
//	client.SetLongLivedAccessTokenExpiresWhen(client.TokenState().ExpiresWhenFrom(time.Now()))
//
//	media, err := client.FetchMyMedia(ctx, nil, instagram.Limit(10))
//
// Operations return an error only when no JSON object could be obtained
// (transport failure or an unparseable body). Anything the API returns,
// error payloads included, comes back as a Result; check Result.APIError.
// HTTP status codes are not inspected and nothing is retried.
package instagram
