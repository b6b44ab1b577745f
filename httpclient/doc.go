// Package httpclient is the HTTP transport shared by the cloud engine and
// the model downloader: bearer/API-key auth, multipart uploads, optional
// retry, streaming downloads, and errors that carry the response status and
// body so the error classifier can render them.
//
//	client, err := httpclient.New(httpclient.Config{Timeout: 60 * time.Second})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   endpoint,
//	    Auth:   httpclient.BearerAuth(apiKey),
//	    Body: &httpclient.MultipartBody{
//	        Fields: map[string]string{"model": "whisper-1"},
//	        Files:  []httpclient.FileField{{FieldName: "file", FileName: "audio.wav", Data: wav}},
//	    },
//	})
package httpclient
