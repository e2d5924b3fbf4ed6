// Package templates holds the server-rendered HTML for the application.
//
// The API surface is JSON for the SPA frontend; the only full pages served
// here are the login screen and small error fragments.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LoginPage renders the CloudCollect login screen.
func LoginPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, loginPageHTML)
		return err
	})
}

// ErrorAlert renders an inline error fragment with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var err error
		write := func(s string) {
			if err == nil {
				_, err = io.WriteString(w, s)
			}
		}
		write(`<div class="alert alert-error" role="alert">`)
		write(`<p class="alert-message">` + templ.EscapeString(message) + `</p>`)
		if action != "" {
			write(`<p class="alert-action">` + templ.EscapeString(action) + `</p>`)
		}
		if code != "" {
			write(`<p class="alert-code">Code: ` + templ.EscapeString(code) + `</p>`)
		}
		write(`</div>`)
		return err
	})
}

// AppShell renders the minimal authenticated shell. The real UI is the SPA
// frontend served separately; this page is what the login redirect lands on
// when the server runs standalone.
func AppShell(email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var err error
		write := func(s string) {
			if err == nil {
				_, err = io.WriteString(w, s)
			}
		}
		write(appShellHead)
		write(`<p class="signed-in">Signed in as ` + templ.EscapeString(email) + `</p>`)
		write(appShellFoot)
		return err
	})
}

const appShellHead = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>CloudCollect</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; margin: 2rem; color: #1e3a5f; }
    .signed-in { color: #6b7280; }
    button { padding: 0.4rem 1rem; border: 1px solid #d1d5db; border-radius: 6px; background: white; cursor: pointer; }
  </style>
</head>
<body>
  <h1>CloudCollect</h1>
`

const appShellFoot = `  <p>The API is available under <code>/api</code>.</p>
  <form method="POST" action="/api/logout"><button type="submit">Sign out</button></form>
</body>
</html>
`

const loginPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>CloudCollect - Login</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      background: linear-gradient(135deg, #1e3a5f 0%, #2d5a8e 100%);
      min-height: 100vh;
      display: flex;
      align-items: center;
      justify-content: center;
    }
    .login-card {
      background: white;
      border-radius: 12px;
      padding: 2.5rem;
      width: 100%;
      max-width: 400px;
      box-shadow: 0 20px 40px rgba(0,0,0,0.2);
    }
    .login-card h1 { color: #1e3a5f; margin-bottom: 0.25rem; }
    .login-card .subtitle { color: #6b7280; font-size: 0.9rem; margin-bottom: 1.5rem; }
    .field { margin-bottom: 1rem; }
    .field label { display: block; font-size: 0.85rem; color: #374151; margin-bottom: 0.25rem; }
    .field input {
      width: 100%;
      padding: 0.6rem 0.75rem;
      border: 1px solid #d1d5db;
      border-radius: 6px;
      font-size: 1rem;
    }
    button {
      width: 100%;
      padding: 0.7rem;
      background: #2d5a8e;
      color: white;
      border: none;
      border-radius: 6px;
      font-size: 1rem;
      cursor: pointer;
      margin-top: 0.5rem;
    }
    button:hover { background: #1e3a5f; }
    .alert-error { background: #fef2f2; border: 1px solid #fca5a5; border-radius: 6px; padding: 0.75rem; margin-bottom: 1rem; color: #b91c1c; font-size: 0.9rem; }
    .hidden { display: none; }
  </style>
</head>
<body>
  <div class="login-card">
    <h1>CloudCollect</h1>
    <p class="subtitle">Debt account management</p>
    <div id="error" class="alert-error hidden"></div>
    <form id="login-form">
      <div class="field">
        <label for="companyCode">Company Code</label>
        <input id="companyCode" name="companyCode" type="text" autocomplete="organization" required>
      </div>
      <div class="field">
        <label for="email">Email</label>
        <input id="email" name="email" type="email" autocomplete="email" required>
      </div>
      <div class="field">
        <label for="password">Password</label>
        <input id="password" name="password" type="password" autocomplete="current-password" required>
      </div>
      <button type="submit">Sign In</button>
    </form>
  </div>
  <script>
    document.getElementById('login-form').addEventListener('submit', async (e) => {
      e.preventDefault();
      const errBox = document.getElementById('error');
      errBox.classList.add('hidden');
      const body = {
        companyCode: document.getElementById('companyCode').value,
        email: document.getElementById('email').value,
        password: document.getElementById('password').value,
      };
      const resp = await fetch('/api/login', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify(body),
      });
      if (resp.ok) {
        window.location.href = '/app';
      } else {
        const data = await resp.json().catch(() => ({}));
        errBox.textContent = data.error || 'Login failed';
        errBox.classList.remove('hidden');
      }
    });
  </script>
</body>
</html>
`
