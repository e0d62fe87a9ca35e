package controller

import "errors"

var (
	ErrParseRequest = errors.New("failed to parse request")

	ErrUserRegister  = errors.New("failed to register user")
	ErrGenerateToken = errors.New("failed to generate token")
	ErrUserLogin     = errors.New("failed to login")

	ErrChatUnavailable = errors.New("chat backend is not configured")
	ErrAnswerQuestion  = errors.New("failed to answer question")
	ErrEmptyQuestion   = errors.New("question must not be empty")

	ErrGetFiles   = errors.New("failed to get files")
	ErrUploadFile = errors.New("failed to upload file")
	ErrIngestFile = errors.New("failed to ingest file")
	ErrDeleteFile = errors.New("failed to delete file")

	ErrGetSites     = errors.New("failed to get sites")
	ErrCreateSite   = errors.New("failed to create site")
	ErrReingestSite = errors.New("failed to reingest site")
	ErrDeleteSite   = errors.New("failed to delete site")

	ErrGetChunks    = errors.New("failed to get chunks")
	ErrDeleteChunks = errors.New("failed to delete chunks")
)
