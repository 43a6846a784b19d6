package sources

import "shicihub/pkg/utils"

const (
	untitled  = utils.Untitled
	anonymous = utils.Anonymous
)
