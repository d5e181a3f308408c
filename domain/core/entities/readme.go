package entities

import (
	"sort"
	"strings"
)

// RenderReadme derives a README.md for the project: the technology list,
// generic setup instructions per detected technology family, and the
// rendered directory tree. Tree keys are sorted so the output is stable.
func (p *GeneratedProject) RenderReadme() string {
	var sb strings.Builder

	sb.WriteString("# Generated Project\n\n")
	sb.WriteString("## Technologies Used\n")
	sb.WriteString(strings.Join(p.TechnologyNames(), ", "))
	sb.WriteString("\n\n")

	sb.WriteString("## Project Structure\n")
	sb.WriteString("This project was generated with the following technologies:\n\n")
	for _, tech := range p.technologies {
		sb.WriteString("- **")
		sb.WriteString(tech.Name)
		sb.WriteString("** (")
		sb.WriteString(tech.Category)
		sb.WriteString(")")
		if tech.Version != "" {
			sb.WriteString(" - Version: ")
			sb.WriteString(tech.Version)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Installation & Deployment\n\n")
	sb.WriteString("### Prerequisites\n")
	sb.WriteString("Make sure you have the following installed:\n")
	for _, tech := range p.technologies {
		switch strings.ToLower(tech.Name) {
		case "next.js", "nextjs", "react", "nest.js", "nestjs":
			sb.WriteString("- Node.js (v18 or higher)\n- npm or yarn\n")
		case "mongodb", "mongo":
			sb.WriteString("- MongoDB (local or cloud instance)\n")
		case "python":
			sb.WriteString("- Python (v3.8 or higher)\n- pip\n")
		}
	}

	sb.WriteString("\n### Setup Instructions\n\n")
	sb.WriteString("1. **Install Dependencies**\n")
	sb.WriteString("   ```bash\n   # For Node.js projects\n   npm install\n   # or\n   yarn install\n   ```\n\n")
	sb.WriteString("2. **Environment Configuration**\n")
	sb.WriteString("   - Copy `.env.example` to `.env`\n")
	sb.WriteString("   - Configure your database connection strings\n")
	sb.WriteString("   - Set up any required API keys\n\n")
	sb.WriteString("3. **Database Setup**\n")
	sb.WriteString("   - Ensure your database is running\n")
	sb.WriteString("   - Run migrations if applicable\n\n")
	sb.WriteString("4. **Start the Application**\n")
	sb.WriteString("   ```bash\n   # Development mode\n   npm run dev\n   # or\n   yarn dev\n   ```\n\n")

	sb.WriteString("## File Structure\n")
	writeTree(&sb, p.structure, 0)

	sb.WriteString("\n## Generated by TriForge AI Documentation System\n\n")
	sb.WriteString("This project structure was automatically generated based on your requirements.\n")
	sb.WriteString("Please review and modify the code as needed for your specific use case.\n")

	return sb.String()
}

func writeTree(sb *strings.Builder, tree FileTree, indent int) {
	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(strings.Repeat("  ", indent))
		sb.WriteString("- ")
		sb.WriteString(key)
		sb.WriteString("\n")
		if child, ok := tree[key].(FileTree); ok {
			writeTree(sb, child, indent+1)
		}
	}
}
