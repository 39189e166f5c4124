/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"context"
	"fmt"
	"regexp"
)

// latestTag is the floating tag of the supported image.
const latestTag = "latest"

// dateTagRe matches the date based tags the image is published under.
var dateTagRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (c *Checker) checkDockerImage(_ context.Context, image string) ([]string, error) {
	if image != c.allowedImage {
		return []string{fmt.Sprintf("Only the docker image **%s** from [Docker Hub](https://hub.docker.com/r/%s/) is supported. You are currently using %s.", c.allowedImage, c.allowedImage, image)}, nil
	}
	return nil, nil
}

// checkDockerTag requires a date tag that points to the same image as latest.
func (c *Checker) checkDockerTag(ctx context.Context, tag string) ([]string, error) {
	switch {
	case tag == latestTag:
		return []string{"Please specify the **distinct image tag** (not `latest`), e.g. `2024-01-08`"}, nil
	case !dateTagRe.MatchString(tag):
		return []string{fmt.Sprintf("Please provide a tag that matches the pattern of the tagging strategy of %s, e.g. `2024-01-08`", c.allowedImage)}, nil
	}

	digest, found, err := c.images.Resolve(ctx, tag)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{fmt.Sprintf("The **tag `%s` does not exist** for the docker image %s from Docker Hub. Please provide an actual image tag.", tag, c.allowedImage)}, nil
	}

	latestDigest, found, err := c.images.Resolve(ctx, latestTag)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("image %s has no %s tag", c.allowedImage, latestTag)
	}
	if digest == latestDigest {
		return nil, nil
	}

	current, found, err := c.images.FindAlias(ctx, latestDigest, dateTagRe.MatchString)
	if err != nil {
		return nil, err
	}
	if !found {
		current = latestTag
	}
	return []string{fmt.Sprintf("The docker tag `%s` is not the latest one. Please **update your docker container to image version [`%s`](https://hub.docker.com/r/%s/tags?page=1&name=%s)**", tag, current, c.allowedImage, current)}, nil
}
