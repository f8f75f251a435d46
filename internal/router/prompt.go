package router

import (
	"fmt"
	"strings"
)

// analyzerPrompt asks the model to classify a query as a lookup or a document
// summary request, and to name any known document it references.
func analyzerPrompt(query string, titles []string) string {
	var titleList strings.Builder
	for _, t := range titles {
		titleList.WriteString("- **")
		titleList.WriteString(t)
		titleList.WriteString("**\n")
	}

	return fmt.Sprintf(`You are an intelligent AI assistant that classifies user queries into two categories:

### **1. Retrieval Query**
Classify the query as **Retrieval** if the user is searching for specific information, facts, or details that require looking up content from a document.
**Example Queries:**
- "What is our company's vacation policy?"
- "Provide details about our AWS infrastructure security measures."
- "How does our organization handle network segmentation?"

### **2. Summarization Query**
Classify the query as **Summarization** if the user asks for a summary of a specific document, law, or policy.
**Example Queries:**
- "Summarize the contents of the DevOps Ramp-up Plan."
- "Give me a brief summary of the Technical Infrastructure FAQ."
- "What are the main points covered in the Employee Handbook?"

### **Document Matching**
Determine if the query references a document name, even partially, from the following list:
%s
A document match should be considered if the query directly mentions or implies content that is likely found in a specific document.

### **Response Format:**
1. Classify the query as either "Retrieval" or "Summarization".
2. If a document is matched, return its title.

#### **Example Responses:**
- **Retrieval only:** "Retrieval"
- **Summarization only:** "Summarization"
- **Summarization with document:** "Summarization - Employee Handbook & Policies"
- **Retrieval with document:** "Retrieval - Technical Infrastructure FAQ"

---

Now, analyze the following user query and classify it accordingly:

**User Query:** %q
`, titleList.String(), query)
}
