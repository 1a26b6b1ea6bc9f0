package core

import (
	"log/slog"
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/challenge"
	"github.com/jamesprial/mcp-oauth-2.1/internal/claimvalidator"
	"github.com/jamesprial/mcp-oauth-2.1/internal/core/coreerr"
	"github.com/jamesprial/mcp-oauth-2.1/internal/dpop"
	"github.com/jamesprial/mcp-oauth-2.1/internal/scopeset"
	"github.com/jamesprial/mcp-oauth-2.1/internal/sigverify"
)

const headerWWWAuthenticate = "WWW-Authenticate"

// Authorize is the Authorization Callback (spec.md §4.6): the orchestrator
// that runs Extract → Signature → Claims → Scope → (DPoP?) in sequence,
// short-circuiting and writing exactly one WWW-Authenticate challenge on any
// failure, or attaching a Result to resp on success.
func Authorize(req Request, resp Response, cfg Config) Disposition {
	if req == nil || resp == nil {
		return Error
	}

	now := time.Now()

	token, isDPoP, found := extractToken(req, cfg.Method)
	if !found || token == "" {
		writeChallenge(resp, cfg, challenge.CodeInvalidToken, challenge.MsgTokenMissing, "")
		return Unauthorized
	}

	claims, err := sigverify.Verify(token, cfg.KeySet)
	if err != nil {
		writeChallenge(resp, cfg, challenge.CodeInvalidRequest, challenge.MsgTokenInvalid, "")
		return Unauthorized
	}

	if err := claimvalidator.Validate(claims, cfg.AcceptAccessToken, cfg.AcceptClientToken, now); err != nil {
		tag, _ := coreerr.OutcomeTag(err)
		if outcomeFromTag(tag) == Internal {
			slog.Error("claim validation internal failure", "error", err)
			writeChallenge(resp, cfg, challenge.CodeInvalidRequest, challenge.MsgInternalError, "")
		} else {
			writeChallenge(resp, cfg, challenge.CodeInvalidRequest, challenge.MsgTokenInvalid, "")
		}
		return Unauthorized
	}

	tokenScope, _ := claims.GetString("scope")
	scopeResult, err := scopeset.Intersect(tokenScope, cfg.RequiredScope)
	if err != nil {
		tag, _ := coreerr.OutcomeTag(err)
		if outcomeFromTag(tag) == InsufficientScope {
			required, _ := coreerr.RequiredScopeTag(err)
			writeChallenge(resp, cfg, challenge.CodeInsufficientScope, challenge.MsgScopeInvalid, required)
		} else {
			slog.Error("scope intersection internal failure", "error", err)
			writeChallenge(resp, cfg, challenge.CodeInvalidRequest, challenge.MsgInternalError, "")
		}
		return Unauthorized
	}

	result := &Result{Claims: claims}
	if sub, ok := claims.GetString("sub"); ok {
		result.Sub = sub
		result.HasSub = true
	}
	if clientID, ok := claims.GetString("client_id"); ok {
		result.ClientID = clientID
	}
	if aud, ok := claims.GetString("aud"); ok && aud != "" {
		result.Aud = []string{aud}
	}

	if scopeResult.Granted != nil {
		result.Scope = scopeResult.Granted
	} else {
		result.Scope = scopeResult.Raw
	}

	cnfJKT, hasCnfJKT := claims.CnfJKT()

	switch {
	case hasCnfJKT && !isDPoP:
		// DPoP required (token has cnf.jkt) but scheme was Bearer.
		writeChallenge(resp, cfg, challenge.CodeInvalidRequest, challenge.MsgDPoPRequired, "")
		return Unauthorized

	case isDPoP:
		// The DPoP Verifier is invoked for every DPoP-scheme request, not
		// only when the token carries cnf.jkt: an absent cnf.jkt is passed
		// through as "" and rejected by the verifier's own input check,
		// rather than silently waved through here.
		dpopProof, _ := req.Header("DPoP")
		proof, err := dpop.Verify(dpopProof, token, cfg.HTM, cfg.HTU, cfg.MaxIAT, cnfJKT, now)
		if err != nil {
			tag, _ := coreerr.OutcomeTag(err)
			if outcomeFromTag(tag) == Internal {
				slog.Error("dpop verification internal failure", "error", err)
				writeChallenge(resp, cfg, challenge.CodeInvalidRequest, challenge.MsgInternalError, "")
			} else {
				writeChallenge(resp, cfg, challenge.CodeInvalidRequest, challenge.MsgTokenInvalid, "")
			}
			return Unauthorized
		}
		result.JKT = cnfJKT
		result.HasJKT = true
		_ = proof
	}

	resp.AttachShared(result)
	return Continue
}

func writeChallenge(resp Response, cfg Config, code, description, scope string) {
	c := challenge.New(cfg.Realm, code, description)
	if scope != "" {
		c = c.WithScope(scope)
	}
	if cfg.ResourceMetadataURL != "" {
		c = c.WithResourceMetadata(cfg.ResourceMetadataURL)
	}
	resp.SetHeader(headerWWWAuthenticate, c.Header())
}
