package notifier

import (
	"fmt"

	"lostfound/internal/domain"
	"lostfound/internal/resolve"
)

// Message is one outbound plain-text notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

const posterTemplate = `Hello %s,

Good news! An admin has approved a claim for your %s item "%s".

Item Details:
Name: %s
Date %s: %s

Claimant Details:
Name: %s
Email: %s
Phone: %s

You can now contact the claimant directly through the inbuilt chat system on our lost and found website to arrange for the return of the item.
The chat feature can be accessed through the navigation sidebar on the website.

Thank you for using our Lost & Found service!
`

const claimantTemplate = `Hello %s,

Good news! Your claim for the %s item "%s" has been approved by our admin.

Item Details:
Name: %s
Date %s: %s

Item Owner/Finder Details:
Name: %s
Email: %s
Phone: %s

You can now contact the owner/finder directly through the inbuilt chat system on our lost and found website to arrange for the return of the item.
The chat feature can be accessed through the navigation sidebar on the website.

Thank you for using our Lost & Found service!
`

// Messages builds the outbound messages for an approved claim: one to the
// poster and one to the claimant, each carrying the other party's contact
// details so the two can reach each other directly. A side with no resolvable
// email is skipped; the claimant message is suppressed when both addresses
// are the same person.
func Messages(item, claim domain.Record) []Message {
	poster := resolve.Poster(item, claim)
	claimant := resolve.Claimant(claim)

	itemType := domain.ItemTypeText(stringField(claim, "itemType"))
	itemName := stringField(item, "itemName")
	if itemName == "" {
		itemName = "Unknown Item"
	}
	date := resolve.ItemDate(itemType, item, claim)
	subject := fmt.Sprintf("Claim Approved for Item: %s", itemName)

	var msgs []Message
	if poster.Email != "" {
		body := fmt.Sprintf(posterTemplate,
			poster.Name, itemType, itemName,
			itemName, itemType, date,
			claimant.Name, claimant.Email, claimant.Phone)
		msgs = append(msgs, Message{To: poster.Email, Subject: subject, Body: body})
	}
	if claimant.Email != "" && claimant.Email != poster.Email {
		body := fmt.Sprintf(claimantTemplate,
			claimant.Name, itemType, itemName,
			itemName, itemType, date,
			poster.Name, poster.Email, poster.Phone)
		msgs = append(msgs, Message{To: claimant.Email, Subject: subject, Body: body})
	}
	return msgs
}

func stringField(rec domain.Record, key string) string {
	if rec == nil {
		return ""
	}
	s, _ := rec[key].(string)
	return s
}
