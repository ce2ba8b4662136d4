package service

import (
	"time"

	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/pkg/utils"
)

// graphTimeLayout is the platform's timestamp format; zone offsets carry no
// colon so plain RFC3339 parsing does not cover it.
const graphTimeLayout = "2006-01-02T15:04:05-0700"

func parseGraphTime(value string) time.Time {
	if t, err := time.Parse(graphTimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}

// personalToken returns the account's decrypted personal access token, or ""
// when none is stored. An expired watermark yields ErrExpiredCredential so a
// stale token is never silently used.
func personalToken(cfg config.Config, account *models.Account) (string, error) {
	if account.AccessToken == "" {
		return "", nil
	}
	if account.HasExpiredToken(time.Now()) {
		return "", ErrExpiredCredential
	}
	return utils.Decrypt(account.AccessToken, []byte(cfg.SecretKey))
}

// businessCredentials resolves the Business Manager id and plaintext system
// user token for an account. The shared internal account reads them from
// configuration; everyone else from their stored (encrypted) linkage.
func businessCredentials(cfg config.Config, account *models.Account) (businessID, token string, err error) {
	if account.IsInternal() {
		if cfg.AdminBusinessID == "" || cfg.AdminBusinessToken == "" {
			return "", "", nil
		}
		return cfg.AdminBusinessID, cfg.AdminBusinessToken, nil
	}

	if account.BusinessManagerID == "" || account.BusinessManagerToken == "" {
		return "", "", nil
	}

	token, err = utils.Decrypt(account.BusinessManagerToken, []byte(cfg.SecretKey))
	if err != nil {
		return "", "", err
	}
	return account.BusinessManagerID, token, nil
}
