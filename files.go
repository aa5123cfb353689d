package slacknet

import (
	"context"
	"time"
)

type File struct {
	ID                 string    `json:"id"`
	Created            time.Time `json:"created"`
	Timestamp          time.Time `json:"timestamp"`
	Name               string    `json:"name"`
	Title              string    `json:"title"`
	Mimetype           string    `json:"mimetype"`
	Filetype           string    `json:"filetype"`
	PrettyType         string    `json:"pretty_type"`
	User               string    `json:"user"`
	Mode               string    `json:"mode"`
	Editable           bool      `json:"editable"`
	IsExternal         bool      `json:"is_external"`
	ExternalType       string    `json:"external_type,omitempty"`
	Size               int64     `json:"size"`
	URLPrivate         string    `json:"url_private"`
	URLPrivateDownload string    `json:"url_private_download"`
	Permalink          string    `json:"permalink"`
	PermalinkPublic    string    `json:"permalink_public,omitempty"`
	IsPublic           bool      `json:"is_public"`
	Channels           []string  `json:"channels"`
	Groups             []string  `json:"groups"`
	IMs                []string  `json:"ims"`
	CommentsCount      int       `json:"comments_count"`
}

// FileType filters files.list by kind of file.
type FileType int

const (
	FileTypeAll FileType = iota
	FileTypeSpaces
	FileTypeSnippets
	FileTypeImages
	FileTypeGdocs
	FileTypeZips
	FileTypePdfs
)

func (FileType) EnumNames() []string {
	return []string{"All", "Spaces", "Snippets", "Images", "Gdocs", "Zips", "Pdfs"}
}

type FileListResponse struct {
	Files            []File           `json:"files"`
	Paging           Paging           `json:"paging"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

// FileListParams filters files.list. Zero values are not sent.
type FileListParams struct {
	UserID    string
	ChannelID string
	TsFrom    *time.Time
	TsTo      *time.Time
	Types     []FileType
	Count     int
	Page      int
	Cursor    string
	Limit     int
}

// FilesAPI wraps the files.* methods.
type FilesAPI struct {
	client APIClient
}

func NewFilesAPI(client APIClient) *FilesAPI {
	return &FilesAPI{client: client}
}

// List lists files for a team, in a channel, or from a user, with filters
// applied.
//
// See https://api.slack.com/methods/files.list.
func (f *FilesAPI) List(ctx context.Context, params FileListParams) (*FileListResponse, error) {
	resp := FileListResponse{Files: []File{}}
	err := f.client.Get(ctx, "files.list", Args{
		"user":    optionalString(params.UserID),
		"channel": optionalString(params.ChannelID),
		"ts_from": unixSeconds(params.TsFrom),
		"ts_to":   unixSeconds(params.TsTo),
		"types":   params.Types,
		"count":   optionalInt(params.Count),
		"page":    optionalInt(params.Page),
		"cursor":  optionalString(params.Cursor),
		"limit":   optionalInt(params.Limit),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
