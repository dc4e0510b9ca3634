package toolset

import (
	"context"
	"fmt"

	"github.com/ajitpratap0/hubscout/internal/hub"
	"github.com/ajitpratap0/hubscout/pkg/pagination"
	"github.com/ajitpratap0/hubscout/pkg/tools"
)

func (s *Toolset) greet(_ context.Context, args tools.Arguments) (any, error) {
	name, err := args.RequireString("name")
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("Hello, %s! Welcome to the MCP workshop!", name), nil
}

func (s *Toolset) searchImages(ctx context.Context, args tools.Arguments) (any, error) {
	query, err := args.RequireString("query")
	if err != nil {
		return nil, err
	}
	page, pageSize, err := pageArgs(args)
	if err != nil {
		return nil, err
	}
	return s.hub.SearchImages(ctx, query, page, pageSize)
}

func (s *Toolset) getImageDetails(ctx context.Context, args tools.Arguments) (any, error) {
	image, err := args.RequireString("image_name")
	if err != nil {
		return nil, err
	}
	return s.hub.GetImageDetails(ctx, image)
}

func (s *Toolset) listImageTags(ctx context.Context, args tools.Arguments) (any, error) {
	image, err := args.RequireString("image_name")
	if err != nil {
		return nil, err
	}
	page, pageSize, err := pageArgs(args)
	if err != nil {
		return nil, err
	}
	return s.hub.ListImageTags(ctx, image, page, pageSize)
}

func (s *Toolset) getTagDetails(ctx context.Context, args tools.Arguments) (any, error) {
	image, err := args.RequireString("image_name")
	if err != nil {
		return nil, err
	}
	return s.hub.GetTagDetails(ctx, image, tagArg(args, "tag"))
}

func (s *Toolset) compareImages(ctx context.Context, args tools.Arguments) (any, error) {
	names, err := args.StringSlice("image_names")
	if err != nil {
		return nil, err
	}
	return s.analyzer.CompareImages(ctx, names)
}

func (s *Toolset) compareTags(ctx context.Context, args tools.Arguments) (any, error) {
	image, err := args.RequireString("image_name")
	if err != nil {
		return nil, err
	}
	tag1, err := args.RequireString("tag1")
	if err != nil {
		return nil, err
	}
	tag2, err := args.RequireString("tag2")
	if err != nil {
		return nil, err
	}
	return s.analyzer.CompareTags(ctx, image, tag1, tag2)
}

func (s *Toolset) analyzeImageLayers(ctx context.Context, args tools.Arguments) (any, error) {
	image, err := args.RequireString("image_name")
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeImageLayers(ctx, image, tagArg(args, "tag"))
}

func pageArgs(args tools.Arguments) (page, pageSize int, err error) {
	if page, err = args.Int("page", pagination.FirstPage); err != nil {
		return 0, 0, err
	}
	if pageSize, err = args.Int("page_size", pagination.DefaultPageSize); err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func tagArg(args tools.Arguments, name string) string {
	if tag := args.String(name); tag != "" {
		return tag
	}
	return hub.DefaultTag
}
