package discovery

import (
	"context"
	"fmt"

	discoveryengine "cloud.google.com/go/discoveryengine/apiv1"
	"cloud.google.com/go/discoveryengine/apiv1/discoveryenginepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vesperants/najir-agent/pkg/domain/interfaces"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	titlePageSize  = 5
	searchPageSize = 10
)

// Client wraps Vertex AI Search for case title retrieval and free-text
// case search. Title lookups go through the search engine serving config,
// free-text search through the data store one, mirroring how the corpus is
// indexed.
type Client struct {
	search *discoveryengine.SearchClient

	projectID   string
	location    string
	engineID    string
	dataStoreID string
}

var _ interfaces.TitleFinder = &Client{}
var _ interfaces.CaseSearcher = &Client{}

// New creates a Client. location "global" uses the default endpoint;
// regional locations get their own.
func New(ctx context.Context, projectID, location, engineID, dataStoreID string) (*Client, error) {
	var opts []option.ClientOption
	if location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-discoveryengine.googleapis.com:443", location)))
	}

	search, err := discoveryengine.NewSearchClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create discovery engine search client",
			goerr.V("project_id", projectID),
			goerr.V("location", location),
		)
	}

	return &Client{
		search:      search,
		projectID:   projectID,
		location:    location,
		engineID:    engineID,
		dataStoreID: dataStoreID,
	}, nil
}

func (x *Client) engineServingConfig() string {
	return fmt.Sprintf(
		"projects/%s/locations/%s/collections/default_collection/engines/%s/servingConfigs/default_config",
		x.projectID, x.location, x.engineID,
	)
}

func (x *Client) dataStoreServingConfig() string {
	return fmt.Sprintf(
		"projects/%s/locations/%s/dataStores/%s/servingConfigs/default_config",
		x.projectID, x.location, x.dataStoreID,
	)
}

// FindTitle resolves a case number to its indexed title. The corpus
// indexes decision numbers in Devanagari, so the query is converted before
// searching and hits are matched on the decision_no field. Returns an
// empty string when no document matches.
func (x *Client) FindTitle(ctx context.Context, id types.CaseID) (string, error) {
	nepali := id.ToDevanagari()

	it := x.search.Search(ctx, &discoveryenginepb.SearchRequest{
		ServingConfig: x.engineServingConfig(),
		Query:         nepali.String(),
		PageSize:      titlePageSize,
	})

	for {
		result, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", goerr.Wrap(err, "title search failed", goerr.V("case_id", id))
		}

		data := result.GetDocument().GetStructData()
		if data == nil {
			continue
		}
		fields := data.GetFields()
		if decisionNo, ok := fields["decision_no"]; ok && decisionNo.GetStringValue() == nepali.String() {
			return fields["title"].GetStringValue(), nil
		}
	}

	return "", nil
}

// Search performs a free-text search over the case corpus and returns one
// page of hits.
func (x *Client) Search(ctx context.Context, query string, pageToken string) (*model.SearchPage, error) {
	it := x.search.Search(ctx, &discoveryenginepb.SearchRequest{
		ServingConfig: x.dataStoreServingConfig(),
		Query:         query,
		PageSize:      searchPageSize,
		PageToken:     pageToken,
	})

	page := &model.SearchPage{
		Cases: []model.CaseSummary{},
	}

	for len(page.Cases) < searchPageSize {
		result, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "case search failed", goerr.V("query", query))
		}

		summary := model.CaseSummary{
			ID: types.CaseID(result.GetId()),
		}
		if data := result.GetDocument().GetStructData(); data != nil {
			fields := data.GetFields()
			summary.Title = fields["title"].GetStringValue()
			if decisionNo := fields["decision_no"].GetStringValue(); decisionNo != "" {
				summary.ID = types.CaseID(decisionNo)
			}
		}
		page.Cases = append(page.Cases, summary)
	}

	page.TotalCount = len(page.Cases)
	if resp, ok := it.Response.(*discoveryenginepb.SearchResponse); ok {
		if resp.GetTotalSize() > 0 {
			page.TotalCount = int(resp.GetTotalSize())
		}
		page.NextPageToken = resp.GetNextPageToken()
	}

	return page, nil
}

// Close releases the underlying gRPC connection
func (x *Client) Close() error {
	return x.search.Close()
}
