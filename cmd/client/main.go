package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contacts-web/pkg/model"
)

// client does not follow redirects: the actions answer with a redirect whose target is the
// interesting part of the response.
var client = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

var baseURL string

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080
func main() {
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "the base URL of the contacts web application")
	flag.Parse()

	editForm := url.Values{
		model.FieldFirst:   {"Marcus"},
		model.FieldLast:    {"Antonius"},
		model.FieldTwitter: {"@marcus"},
		model.FieldAvatar:  {"https://example.com/marcus.jpg"},
		model.FieldNotes:   {"Triumvir"},
	}

	fmt.Println()
	fmt.Println("  Elements       NEW      EDIT      VIEW    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{100, 500, 1000, 5000}
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]string, 0, loops)
		{
			// "New" form submissions
			var duration int64
			for i := 0; i < loops; i++ {
				id, d := sendNewRequest()
				ids = append(ids, id)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// Edit form submissions
			f := func(id string) int64 {
				return sendRequest(http.MethodPost, "/contacts/"+id+"/edit", editForm, http.StatusFound)
			}
			callInLoop(ids, f)
		}
		{
			// Detail pages
			f := func(id string) int64 {
				return sendRequest(http.MethodGet, "/contacts/"+id, nil, http.StatusOK)
			}
			callInLoop(ids, f)
		}
		{
			// Delete form submissions
			f := func(id string) int64 {
				return sendRequest(http.MethodPost, "/contacts/"+id+"/destroy", nil, http.StatusFound)
			}
			callInLoop(ids, f)
		}
		fmt.Println()
	}
}

func callInLoop(ids []string, f func(id string) int64) {
	shuffled := append([]string(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

// sendNewRequest submits the "New" form and returns the id of the created contact, taken from
// the redirect to its editor.
func sendNewRequest() (string, int64) {
	res, duration := doRequest(http.MethodPost, "/contacts", nil)
	if res.StatusCode != http.StatusFound {
		panic(fmt.Sprintf("unexpected status %s", res.Status))
	}
	location := res.Header.Get("Location")
	id := strings.TrimSuffix(strings.TrimPrefix(location, "/contacts/"), "/edit")
	if id == "" || id == location {
		panic(fmt.Sprintf("unexpected redirect to %q", location))
	}
	return id, duration
}

func sendRequest(method string, path string, form url.Values, expectedStatus int) int64 {
	res, duration := doRequest(method, path, form)
	if res.StatusCode != expectedStatus {
		panic(fmt.Sprintf("%s %s: unexpected status %s", method, path, res.Status))
	}
	return duration
}

func doRequest(method string, path string, form url.Values) (*http.Response, int64) {
	req, err := http.NewRequest(method, baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	before := time.Now().UnixNano()
	res, err := client.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	_, err = io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return res, after - before
}
