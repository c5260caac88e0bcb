package service

import "errors"

var errEmptyCompletion = errors.New("empty completion")
