package reply

import (
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"archivesim/pkg/archive"
)

func fixedBuilder() *Builder {
	next := 0

	return New(
		WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("id-%d", next)
		}),
		WithClock(func() time.Time {
			return time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
		}),
		WithSequenceSource(func() int { return 4242 }),
		WithItemSource(func() int { return 7 }),
	)
}

func TestInvalidRequestReply(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	message, err := builder.InvalidRequest("missing identifying key for registration")
	require.NoError(t, err)
	require.Equal(t, archive.TypeInvalidRequest, message.Type)
	require.Equal(t, "invalid-request.xml", message.Filename)
	require.True(t, strings.HasPrefix(string(message.Payload), xml.Header))

	var decoded archive.InvalidRequestReply
	require.NoError(t, xml.Unmarshal(message.Payload, &decoded))
	require.Equal(t, "id-1", decoded.ErrorID)
	require.Equal(t, "id-2", decoded.CorrelationID)
	require.Equal(t, "missing identifying key for registration", decoded.Message)
}

func TestInvalidRequestFromViolationsJoinsFirstGroup(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	message, err := builder.InvalidRequestFromViolations(archive.ValidationResult{
		{"title is required", "unexpected element"},
		{"later group is ignored"},
	})
	require.NoError(t, err)

	var decoded archive.InvalidRequestReply
	require.NoError(t, xml.Unmarshal(message.Payload, &decoded))
	require.Equal(t, "title is required\nunexpected element", decoded.Message)
}

func TestSubmissionRepliesForFolderClass(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	replies, err := builder.SubmissionReplies(&archive.Submission{
		Folders: []archive.Folder{{Title: "case folder"}},
	})
	require.NoError(t, err)
	require.Len(t, replies, 2)

	require.Equal(t, archive.TypeSubmissionReceived, replies[0].Type)
	require.Nil(t, replies[0].Payload)

	require.Equal(t, archive.TypeSubmissionReceipt, replies[1].Type)
	var receipt archive.SubmissionReceipt
	require.NoError(t, xml.Unmarshal(replies[1].Payload, &receipt))
	require.Len(t, receipt.FolderReceipts, 1)
	require.Empty(t, receipt.RegistrationReceipts)

	folderReceipt := receipt.FolderReceipts[0]
	require.Equal(t, "id-1", folderReceipt.SystemID)
	require.Equal(t, 2026, folderReceipt.Year)
	require.Equal(t, 4242, folderReceipt.SequenceNumber)
}

func TestSubmissionRepliesForRegistrationClass(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	replies, err := builder.SubmissionReplies(&archive.Submission{
		Registrations: []archive.Registration{{Title: "loose note"}},
	})
	require.NoError(t, err)
	require.Len(t, replies, 2)

	var receipt archive.SubmissionReceipt
	require.NoError(t, xml.Unmarshal(replies[1].Payload, &receipt))
	require.Empty(t, receipt.FolderReceipts)
	require.Len(t, receipt.RegistrationReceipts, 1)

	registrationReceipt := receipt.RegistrationReceipts[0]
	require.Equal(t, "id-1", registrationReceipt.SystemID)
	require.Equal(t, 2026, registrationReceipt.Year)
	require.Equal(t, 4242, registrationReceipt.SequenceNumber)
	require.Equal(t, 7, registrationReceipt.ItemNumber)
}

func TestGeneratedItemNumberStaysInRange(t *testing.T) {
	t.Parallel()

	builder := New()
	for trial := 0; trial < 200; trial++ {
		item := builder.item()
		require.GreaterOrEqual(t, item, 1)
		require.Less(t, item, 100)
	}
}

func TestUpdateReplies(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	replies := builder.UpdateReplies()
	require.Len(t, replies, 2)
	require.Equal(t, archive.TypeUpdateReceived, replies[0].Type)
	require.Equal(t, archive.TypeUpdateReceipt, replies[1].Type)
	require.Nil(t, replies[0].Payload)
	require.Nil(t, replies[1].Payload)
}

func TestSearchResultMinimal(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	message, err := builder.SearchResult(archive.DetailMinimal, []archive.Registration{
		{SystemID: "reg-1", Title: "incoming letter"},
	})
	require.NoError(t, err)
	require.Equal(t, archive.TypeSearchResultMinimal, message.Type)
	require.Equal(t, "search-result-minimal.xml", message.Filename)

	var result archive.SearchResult
	require.NoError(t, xml.Unmarshal(message.Payload, &result))
	require.Equal(t, 1, result.Count)
	require.Len(t, result.Hits, 1)
	require.Equal(t, "incoming letter", result.Hits[0].Title)
	require.Equal(t, 2026, result.Hits[0].Year)
	// Minimal hits carry no identities.
	require.Empty(t, result.Hits[0].SystemID)
	require.Nil(t, result.Hits[0].Registration)
}

func TestSearchResultKeys(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	key := &archive.ExternalKey{Subsystem: "caseworks", Key: "2024-17"}
	message, err := builder.SearchResult(archive.DetailKeys, []archive.Registration{
		{SystemID: "reg-1", Title: "incoming letter", ExternalKey: key},
	})
	require.NoError(t, err)
	require.Equal(t, archive.TypeSearchResultKeys, message.Type)

	var result archive.SearchResult
	require.NoError(t, xml.Unmarshal(message.Payload, &result))
	require.Len(t, result.Hits, 1)
	require.Equal(t, "reg-1", result.Hits[0].SystemID)
	require.Equal(t, key, result.Hits[0].ExternalKey)
	require.Empty(t, result.Hits[0].Title)
}

func TestSearchResultExtended(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	message, err := builder.SearchResult(archive.DetailExtended, []archive.Registration{
		{SystemID: "reg-1", Title: "incoming letter"},
	})
	require.NoError(t, err)
	require.Equal(t, archive.TypeSearchResultExtended, message.Type)

	var result archive.SearchResult
	require.NoError(t, xml.Unmarshal(message.Payload, &result))
	require.Len(t, result.Hits, 1)
	require.NotNil(t, result.Hits[0].Registration)
	require.Equal(t, "incoming letter", result.Hits[0].Registration.Title)
}

func TestSearchResultEmpty(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	message, err := builder.SearchResult(archive.DetailMinimal, nil)
	require.NoError(t, err)

	var result archive.SearchResult
	require.NoError(t, xml.Unmarshal(message.Payload, &result))
	require.Zero(t, result.Count)
	require.Empty(t, result.Hits)
}

func TestLookupResult(t *testing.T) {
	t.Parallel()

	builder := fixedBuilder()
	message, err := builder.LookupResult(archive.Registration{
		SystemID: "reg-1",
		Title:    "incoming letter",
	})
	require.NoError(t, err)
	require.Equal(t, archive.TypeLookupResult, message.Type)
	require.Equal(t, "lookup-result.xml", message.Filename)

	var result archive.LookupResult
	require.NoError(t, xml.Unmarshal(message.Payload, &result))
	require.Equal(t, "reg-1", result.Registration.SystemID)
	require.Equal(t, "incoming letter", result.Registration.Title)
}

func TestIdenticalOutcomesProduceIdenticalPayloads(t *testing.T) {
	t.Parallel()

	submission := &archive.Submission{Folders: []archive.Folder{{Title: "case folder"}}}

	first, err := fixedBuilder().SubmissionReplies(submission)
	require.NoError(t, err)
	second, err := fixedBuilder().SubmissionReplies(submission)
	require.NoError(t, err)

	require.Equal(t, first, second)
}
