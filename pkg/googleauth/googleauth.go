// Package googleauth runs the installed-app OAuth2 flow for Google APIs and caches the token on disk.
package googleauth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Flow obtains an authorized HTTP client, prompting the operator for a code only when no token is cached.
type Flow struct {
	CredentialsPath string
	TokenPath       string
	Scopes          []string
	In              io.Reader
	Out             io.Writer
}

// Client is a convenience for a Flow that prompts on stdin/stdout.
func Client(ctx context.Context, credentialsPath, tokenPath string, scopes ...string) (client *http.Client, err error) {
	flow := Flow{
		CredentialsPath: credentialsPath,
		TokenPath:       tokenPath,
		Scopes:          scopes,
		In:              os.Stdin,
		Out:             os.Stdout,
	}
	client, err = flow.Client(ctx)
	return client, err
}

// Config reads the OAuth client secrets file.
func (f *Flow) Config() (config *oauth2.Config, err error) {
	var b []byte
	b, err = os.ReadFile(f.CredentialsPath)
	if err != nil {
		err = errors.Wrapf(err, "unable to read credentials file: %s", f.CredentialsPath)
		return config, err
	}

	config, err = google.ConfigFromJSON(b, f.Scopes...)
	if err != nil {
		err = errors.Wrapf(err, "unable to parse credentials file: %s", f.CredentialsPath)
		return config, err
	}

	return config, err
}

// Client returns an HTTP client that refreshes its token as needed.
func (f *Flow) Client(ctx context.Context) (client *http.Client, err error) {
	var config *oauth2.Config
	config, err = f.Config()
	if err != nil {
		return client, err
	}

	var tok *oauth2.Token
	tok, err = TokenFromFile(f.TokenPath)
	if err != nil {
		tok, err = f.tokenFromWeb(ctx, config)
		if err != nil {
			return client, err
		}

		err = SaveToken(f.TokenPath, tok)
		if err != nil {
			return client, err
		}
	}

	client = config.Client(ctx, tok)

	return client, err
}

// tokenFromWeb prints the consent URL and exchanges the code the operator pastes back.
func (f *Flow) tokenFromWeb(ctx context.Context, config *oauth2.Config) (tok *oauth2.Token, err error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	_, _ = fmt.Fprintf(f.Out, "Go to the following link in your browser then type the authorization code:\n%s\n", authURL)

	reader := bufio.NewReader(f.In)
	var line string
	line, err = reader.ReadString('\n')
	authCode := strings.TrimSpace(line)
	if authCode == "" {
		if err == nil {
			err = errors.New("empty authorization code")
		}
		err = errors.Wrap(err, "unable to read authorization code")
		return tok, err
	}

	tok, err = config.Exchange(ctx, authCode)
	if err != nil {
		err = errors.Wrap(err, "unable to retrieve token from web")
		return tok, err
	}

	return tok, err
}

// TokenFromFile retrieves a token from a local file.
func TokenFromFile(path string) (tok *oauth2.Token, err error) {
	var f *os.File
	f, err = os.Open(path)
	if err != nil {
		return tok, err
	}
	defer f.Close()

	tok = &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse token file: %s", path)
		return nil, err
	}

	return tok, err
}

// SaveToken writes a token readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create token directory: %s", dir)
		return err
	}

	var data []byte
	data, err = json.Marshal(tok)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal token")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "unable to cache oauth token: %s", path)
		return err
	}

	return err
}
