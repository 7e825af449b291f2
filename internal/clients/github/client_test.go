package github

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func getIssuesMock(t *testing.T) *http.Response {
	file, err := os.ReadFile("testdata/get_issues.json")
	require.NoError(t, err)
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}
}

func Test_GithubClient_GetProfileIssues_ShouldBeSuccessful(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://api.github.com/repos/GeonYul2/Recruitment-Auto/issues?"+
			"labels=profile&per_page=100&state=open"
	})).Return(getIssuesMock(t), nil)

	client := NewClient("GeonYul2/Recruitment-Auto", "")
	client.SetHTTPClient(mockClient)

	issues, err := client.GetProfileIssues(context.Background(), "profile")
	assert.NoError(err)

	assert.Len(issues, 2)
	assert.Equal(12, issues[0].Number)
	assert.Equal("jobseeker-kim", issues[0].User.Login)
	assert.Contains(issues[0].Body, "데이터 분석")
	assert.Equal(15, issues[1].Number)
}

func Test_GithubClient_PostComment_SendsTokenAndBody(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		if req.Method != http.MethodPost ||
			req.URL.String() != "https://api.github.com/repos/GeonYul2/Recruitment-Auto/issues/12/comments" {
			return false
		}
		return req.Header.Get("Authorization") == "Bearer test-token"
	})).Return(&http.Response{StatusCode: 201, Body: io.NopCloser(bytes.NewBufferString("{}"))}, nil)

	client := NewClient("GeonYul2/Recruitment-Auto", "test-token")
	client.SetHTTPClient(mockClient)

	err := client.PostComment(context.Background(), 12, "## 매칭 결과")
	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func Test_GithubClient_PostComment_FailsWithoutToken(t *testing.T) {

	client := NewClient("GeonYul2/Recruitment-Auto", "")
	err := client.PostComment(context.Background(), 12, "body")
	assert.Error(t, err)
}
