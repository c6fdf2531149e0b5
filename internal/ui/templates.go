package ui

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/me/jarvis/pkg/model"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"formatTimePtr": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return humanize.Time(t)
	},
	"bytes": func(n int64) string {
		if n <= 0 {
			return "-"
		}
		return humanize.Bytes(uint64(n))
	},
	"duration": func(d time.Duration) string {
		return d.Round(time.Minute).String()
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"statusColor": func(status any) string {
		switch strings.ToLower(fmt.Sprint(status)) {
		case "pending":
			return "yellow"
		case "processing":
			return "blue"
		case "completed":
			return "green"
		case "failed":
			return "red"
		default:
			return "gray"
		}
	},
	"roleColor": func(role any) string {
		switch fmt.Sprint(role) {
		case "admin":
			return "red"
		case "editor":
			return "blue"
		default:
			return "gray"
		}
	},
	"capitalize": func(s any) string {
		v := fmt.Sprint(s)
		if v == "" {
			return v
		}
		return strings.ToUpper(v[:1]) + v[1:]
	},
	"isActive": func(status model.IngestionStatus) bool {
		return status.IsActive()
	},
	"percent": func(score float64) string {
		return fmt.Sprintf("%.0f%%", score*100)
	},
}

// renderTemplate renders a template with the given data.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	_, err = tmpl.New("content").Parse(content)
	if err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	// Add shared components.
	for compName, compContent := range templates {
		if strings.HasPrefix(compName, "components/") {
			_, err = tmpl.New(filepath.Base(compName)).Parse(compContent)
			if err != nil {
				return fmt.Errorf("parse component %s: %w", compName, err)
			}
		}
	}

	return tmpl.Execute(w, data)
}

// templates holds all template content.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    {{with .RefreshSeconds}}<meta http-equiv="refresh" content="{{.}}">{{end}}
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    {{if .User}}
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-16">
                <div class="flex">
                    <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">Jarvis</a>
                    <div class="hidden sm:ml-6 sm:flex sm:space-x-8">
                        {{range .Menu}}
                        <a href="{{.Path}}" class="{{if .Active}}border-indigo-500 text-gray-900{{else}}border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700{{end}} inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">{{.Text}}</a>
                        {{end}}
                    </div>
                </div>
                <div class="flex items-center">
                    <span class="text-sm text-gray-500 mr-2">{{.User.Username}}</span>
                    {{template "role_chip" .User.Role}}
                    <a href="/logout" class="ml-4 text-sm text-gray-500 hover:text-gray-700">Logout</a>
                </div>
            </div>
        </div>
    </nav>
    <script>
        window.addEventListener('focus', function () {
            fetch('/session/focus', {method: 'POST', credentials: 'same-origin'})
                .then(function (r) { return r.json(); })
                .then(function (env) {
                    if (!env.data || !env.data.isAuthenticated) { window.location.reload(); }
                })
                .catch(function () {});
        });
    </script>
    {{end}}

    <main class="max-w-7xl mx-auto py-6 sm:px-6 lg:px-8">
        {{template "alerts" .}}
        {{template "content" .}}
    </main>
</body>
</html>`,

	"components/alerts": `{{define "alerts"}}
{{if .Notice}}
<div class="rounded-md bg-green-50 p-4 mb-4"><div class="text-sm text-green-700">{{.Notice}}</div></div>
{{end}}
{{if .Error}}
<div class="rounded-md bg-red-50 p-4 mb-4"><div class="text-sm text-red-700">{{.Error}}</div></div>
{{end}}
{{end}}`,

	"components/role_chip": `{{define "role_chip"}}
<span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full bg-{{roleColor .}}-100 text-{{roleColor .}}-800">{{capitalize .}}</span>
{{end}}`,

	"login": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center py-12 px-4 sm:px-6 lg:px-8">
    <div class="max-w-md w-full space-y-8">
        <div>
            <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">Jarvis</h2>
            <p class="mt-2 text-center text-sm text-gray-600">Sign in to your account</p>
        </div>
        {{if .Expired}}
        <div class="rounded-md bg-yellow-50 p-4">
            <div class="text-sm text-yellow-700">Your session has expired. Please sign in again.</div>
        </div>
        {{end}}
        <form class="mt-8 space-y-6" action="/login" method="POST">
            <input type="hidden" name="from" value="{{.From}}">
            <div class="rounded-md shadow-sm -space-y-px">
                <div>
                    <label for="email" class="sr-only">Email Address</label>
                    <input id="email" name="email" type="email" required autofocus value="{{.Email}}"
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-t-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 sm:text-sm"
                           placeholder="Email Address">
                </div>
                <div>
                    <label for="password" class="sr-only">Password</label>
                    <input id="password" name="password" type="password" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-b-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 sm:text-sm"
                           placeholder="Password">
                </div>
            </div>
            <button type="submit"
                    class="group relative w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                Sign in
            </button>
            <p class="text-center text-sm text-gray-600">Don't have an account? <a href="/register" class="text-indigo-600 hover:text-indigo-500">Sign up</a></p>
        </form>
    </div>
</div>
{{end}}`,

	"register": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center py-12 px-4 sm:px-6 lg:px-8">
    <div class="max-w-md w-full space-y-8">
        <div>
            <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">Create an account</h2>
        </div>
        <form class="mt-8 space-y-4" action="/register" method="POST">
            <input name="username" type="text" required value="{{.Username}}" placeholder="Username"
                   class="block w-full px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
            <input name="email" type="email" required value="{{.Email}}" placeholder="Email Address"
                   class="block w-full px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
            <input name="password" type="password" required minlength="8" placeholder="Password"
                   class="block w-full px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
            <input name="confirm_password" type="password" required placeholder="Confirm Password"
                   class="block w-full px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
            <button type="submit"
                    class="w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                Sign up
            </button>
            <p class="text-center text-sm text-gray-600">Already have an account? <a href="/login" class="text-indigo-600 hover:text-indigo-500">Sign in</a></p>
        </form>
    </div>
</div>
{{end}}`,

	"loading": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center">
    <div class="text-center">
        <div class="animate-spin rounded-full h-12 w-12 border-b-2 border-indigo-600 mx-auto mb-4"></div>
        <p class="text-gray-600">Authenticating...</p>
    </div>
</div>
{{end}}`,

	"dashboard": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-8">
        <h1 class="text-2xl font-semibold text-gray-900">Welcome, {{.User.Username}}</h1>
        <p class="mt-1 text-sm text-gray-500">Dashboard overview of your document management system</p>
    </div>

    <div class="grid grid-cols-1 gap-5 sm:grid-cols-2 lg:grid-cols-4 mb-8">
        <div class="bg-white shadow rounded-lg p-5">
            <div class="text-sm text-gray-500">Documents</div>
            <div class="text-3xl font-semibold text-gray-900">{{.Stats.Documents}}</div>
        </div>
        <div class="bg-white shadow rounded-lg p-5">
            <div class="text-sm text-gray-500">Completed Ingestions</div>
            <div class="text-3xl font-semibold text-gray-900">{{.Stats.Completed}}/{{.Stats.Ingestions}}</div>
        </div>
        <div class="bg-white shadow rounded-lg p-5">
            <div class="text-sm text-gray-500">Questions Asked</div>
            <div class="text-3xl font-semibold text-gray-900">{{.Stats.Questions}}</div>
        </div>
        <div class="bg-white shadow rounded-lg p-5">
            <div class="text-sm text-gray-500">Session</div>
            {{with .Token}}{{if .Decodable}}
            <div class="text-sm {{if .ExpiringSoon}}text-yellow-700{{else}}text-gray-900{{end}}">expires in {{duration .TimeLeft}}</div>
            {{if .Claims.UnknownRole}}<div class="text-xs text-yellow-700">token role "{{.Claims.RawRole}}" treated as viewer</div>{{end}}
            {{end}}{{end}}
            <div class="text-xs text-gray-400 mt-1">console up {{.Uptime}}</div>
        </div>
    </div>

    <div class="grid grid-cols-1 gap-5 lg:grid-cols-2">
        <div class="bg-white shadow rounded-lg">
            <div class="px-4 py-3 border-b text-lg font-medium text-gray-900">Recent Documents</div>
            <ul class="divide-y divide-gray-200">
                {{range .RecentDocuments}}
                <li class="px-4 py-3">
                    <div class="text-sm font-medium text-gray-900">{{.Title}}</div>
                    <div class="text-xs text-gray-500">by {{.UploadedBy.Username}}, {{ago .CreatedAt}}</div>
                </li>
                {{else}}
                <li class="px-4 py-3 text-sm text-gray-500">No documents yet</li>
                {{end}}
            </ul>
        </div>
        <div class="bg-white shadow rounded-lg">
            <div class="px-4 py-3 border-b text-lg font-medium text-gray-900">Recent Questions</div>
            <ul class="divide-y divide-gray-200">
                {{range .RecentQuestions}}
                <li class="px-4 py-3">
                    <div class="text-sm text-gray-900">{{.Question}}</div>
                    <div class="text-xs text-gray-500">{{ago .Timestamp}}</div>
                </li>
                {{else}}
                <li class="px-4 py-3 text-sm text-gray-500">No questions yet</li>
                {{end}}
            </ul>
        </div>
    </div>
</div>
{{end}}`,

	"documents": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">Documents</h1>
    {{if .CanEdit}}
    <form action="/documents" method="POST" enctype="multipart/form-data" class="bg-white shadow rounded-lg p-4 mb-6 grid grid-cols-1 gap-3 sm:grid-cols-4">
        <input name="title" type="text" placeholder="Title" class="px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
        <input name="description" type="text" placeholder="Description" class="px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
        <input name="file" type="file" required class="text-sm">
        <button type="submit" class="py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Upload</button>
    </form>
    {{end}}
    <div class="bg-white shadow overflow-hidden sm:rounded-lg">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Title</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Type</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Size</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Uploaded</th>
                    {{if .CanEdit}}<th class="px-6 py-3"></th>{{end}}
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{$canEdit := .CanEdit}}
                {{range .Documents}}
                <tr>
                    <td class="px-6 py-4 text-sm">
                        <div class="font-medium text-gray-900">{{.Title}}</div>
                        <div class="text-gray-500">{{.Description}}</div>
                    </td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.FileType}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{bytes .FileSize}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.UploadedBy.Username}}, {{ago .CreatedAt}}</td>
                    {{if $canEdit}}
                    <td class="px-6 py-4 text-sm text-right space-y-1">
                        <form action="/documents/{{.ID}}/update" method="POST" class="flex gap-1">
                            <input name="title" value="{{.Title}}" class="px-2 py-1 border border-gray-300 rounded text-xs">
                            <input name="description" value="{{.Description}}" class="px-2 py-1 border border-gray-300 rounded text-xs">
                            <button class="text-indigo-600 hover:text-indigo-900">Save</button>
                        </form>
                        <form action="/ingestion" method="POST" class="inline">
                            <input type="hidden" name="document_id" value="{{.ID}}">
                            <button class="text-green-600 hover:text-green-900">Ingest</button>
                        </form>
                        <form action="/documents/{{.ID}}/delete" method="POST" class="inline" onsubmit="return confirm('Delete this document?')">
                            <button class="text-red-600 hover:text-red-900">Delete</button>
                        </form>
                    </td>
                    {{end}}
                </tr>
                {{else}}
                <tr><td colspan="5" class="px-6 py-4 text-sm text-gray-500 text-center">No documents found</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>
</div>
{{end}}`,

	"ingestion": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">Ingestion</h1>
    {{if .CanTrigger}}
    <form action="/ingestion" method="POST" class="bg-white shadow rounded-lg p-4 mb-6 flex gap-3">
        <select name="document_id" required class="flex-1 px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
            <option value="">Select a document</option>
            {{range .Documents}}<option value="{{.ID}}">{{.Title}}</option>{{end}}
        </select>
        <button type="submit" class="py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Start Ingestion</button>
    </form>
    {{end}}
    <div class="bg-white shadow overflow-hidden sm:rounded-lg">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Document</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Status</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Started</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Completed</th>
                    <th class="px-6 py-3"></th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{range .Ingestions}}
                <tr>
                    <td class="px-6 py-4 text-sm text-gray-900">{{if .Document.Title}}{{.Document.Title}}{{else}}{{.DocumentID}}{{end}}</td>
                    <td class="px-6 py-4 text-sm">
                        <span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full bg-{{statusColor .Status}}-100 text-{{statusColor .Status}}-800">{{.Status}}</span>
                        {{with deref .ErrorMessage}}<div class="text-xs text-red-600 mt-1">{{.}}</div>{{end}}
                    </td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{formatTime .StartedAt}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{formatTimePtr .CompletedAt}}</td>
                    <td class="px-6 py-4 text-sm text-right">
                        {{if and $.CanTrigger (isActive .Status)}}
                        <form action="/ingestion/{{.ID}}/cancel" method="POST">
                            <button class="text-red-600 hover:text-red-900">Cancel</button>
                        </form>
                        {{end}}
                    </td>
                </tr>
                {{else}}
                <tr><td colspan="5" class="px-6 py-4 text-sm text-gray-500 text-center">No ingestions yet</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{if .RefreshSeconds}}<p class="mt-2 text-xs text-gray-400">Refreshing every {{.RefreshSeconds}}s while ingestions are running.</p>{{end}}
</div>
{{end}}`,

	"qa": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">Questions &amp; Answers</h1>
    {{$selected := .Selected}}
    <div class="grid grid-cols-1 gap-5 lg:grid-cols-3">
        <div class="lg:col-span-2 space-y-5">
            <form action="/qa/ask" method="POST" class="bg-white shadow rounded-lg p-4 space-y-3">
                <textarea name="question" rows="3" required placeholder="Ask a question about your documents"
                          class="block w-full px-3 py-2 border border-gray-300 rounded-md sm:text-sm">{{.Question}}</textarea>
                {{range .Documents}}{{if index $selected .ID}}<input type="hidden" name="documents" value="{{.ID}}">{{end}}{{end}}
                <button type="submit" class="py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Ask</button>
            </form>
            {{with .Answer}}
            <div class="bg-white shadow rounded-lg p-4">
                <div class="text-sm text-gray-900 whitespace-pre-line">{{.Text}}</div>
                {{if .Sources}}
                <ul class="mt-3 space-y-2">
                    {{range .Sources}}
                    <li class="text-xs text-gray-600"><span class="font-medium">{{.DocumentTitle}}</span> ({{percent .RelevanceScore}}): {{.Excerpt}}</li>
                    {{end}}
                </ul>
                {{end}}
            </div>
            {{end}}
            <div class="bg-white shadow rounded-lg">
                <div class="px-4 py-3 border-b text-lg font-medium text-gray-900">History</div>
                <ul class="divide-y divide-gray-200">
                    {{range .History}}
                    <li class="px-4 py-3">
                        <div class="text-sm font-medium text-gray-900">{{.Question}}</div>
                        <div class="text-sm text-gray-700 whitespace-pre-line">{{.Answer}}</div>
                        <div class="text-xs text-gray-400">{{ago .Timestamp}}</div>
                    </li>
                    {{else}}
                    <li class="px-4 py-3 text-sm text-gray-500">No questions yet</li>
                    {{end}}
                </ul>
            </div>
        </div>
        <form action="/qa/select" method="POST" class="bg-white shadow rounded-lg p-4 space-y-2 h-fit">
            <div class="text-lg font-medium text-gray-900">Documents</div>
            {{range .Documents}}
            <label class="flex items-center gap-2 text-sm text-gray-700">
                <input type="checkbox" name="documents" value="{{.ID}}" {{if index $selected .ID}}checked{{end}}> {{.Title}}
            </label>
            {{else}}
            <p class="text-sm text-gray-500">No documents available</p>
            {{end}}
            <button type="submit" class="py-1 px-3 text-sm rounded-md border border-gray-300 hover:bg-gray-50">Save selection</button>
        </form>
    </div>
</div>
{{end}}`,

	"users": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="flex justify-between items-center mb-6">
        <h1 class="text-2xl font-semibold text-gray-900">Users</h1>
        <form method="GET" action="/users">
            <select name="role" onchange="this.form.submit()" class="px-3 py-2 border border-gray-300 rounded-md text-sm">
                <option value="">All roles</option>
                {{$filter := .Filter}}
                {{range .Roles}}<option value="{{.}}" {{if eq (print .) $filter}}selected{{end}}>{{capitalize .}}</option>{{end}}
            </select>
        </form>
    </div>
    <form action="/users" method="POST" class="bg-white shadow rounded-lg p-4 mb-6 grid grid-cols-1 gap-3 sm:grid-cols-5">
        <input name="username" type="text" required placeholder="Username" class="px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
        <input name="email" type="email" required placeholder="Email" class="px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
        <input name="password" type="password" required minlength="8" placeholder="Password" class="px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
        <select name="role" class="px-3 py-2 border border-gray-300 rounded-md sm:text-sm">
            {{range .Roles}}<option value="{{.}}">{{capitalize .}}</option>{{end}}
        </select>
        <button type="submit" class="py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Add User</button>
    </form>
    <div class="bg-white shadow overflow-hidden sm:rounded-lg">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Username</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Email</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Role</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Created</th>
                    <th class="px-6 py-3"></th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{$roles := .Roles}}
                {{range .Users}}
                <tr>
                    <td class="px-6 py-4 text-sm font-medium text-gray-900">{{.Username}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.Email}}</td>
                    <td class="px-6 py-4 text-sm">{{template "role_chip" .Role}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{formatDate .CreatedAt}}</td>
                    <td class="px-6 py-4 text-sm text-right">
                        {{$role := .Role}}
                        <form action="/users/{{.ID}}/update" method="POST" class="inline-flex gap-1">
                            <select name="role" class="px-2 py-1 border border-gray-300 rounded text-xs">
                                {{range $roles}}<option value="{{.}}" {{if eq . $role}}selected{{end}}>{{capitalize .}}</option>{{end}}
                            </select>
                            <button class="text-indigo-600 hover:text-indigo-900">Save</button>
                        </form>
                        <form action="/users/{{.ID}}/delete" method="POST" class="inline" onsubmit="return confirm('Delete this user?')">
                            <button class="text-red-600 hover:text-red-900">Delete</button>
                        </form>
                    </td>
                </tr>
                {{else}}
                <tr><td colspan="5" class="px-6 py-4 text-sm text-gray-500 text-center">No users found</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center">
    <div class="text-center">
        <h1 class="text-4xl font-bold text-gray-900 mb-4">Error</h1>
        <p class="text-gray-600 mb-8">{{.Message}}</p>
        <a href="/" class="text-indigo-600 hover:text-indigo-500">Return to Dashboard</a>
    </div>
</div>
{{end}}`,

	"notfound": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center">
    <div class="text-center">
        <h1 class="text-6xl font-bold text-gray-900 mb-2">404</h1>
        <h2 class="text-2xl text-gray-700 mb-4">Page Not Found</h2>
        <p class="text-gray-600 mb-8">{{.Message}}</p>
        <a href="/" class="text-indigo-600 hover:text-indigo-500">Go to Dashboard</a>
    </div>
</div>
{{end}}`,
}
